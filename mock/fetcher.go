package mock

import (
	"context"

	"github.com/fwojciec/roster"
)

var _ roster.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of roster.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ roster.Prober = (*Prober)(nil)

// Prober is a mock implementation of roster.Prober.
type Prober struct {
	ExistsFn func(ctx context.Context, url string) (bool, error)
}

func (p *Prober) Exists(ctx context.Context, url string) (bool, error) {
	return p.ExistsFn(ctx, url)
}
