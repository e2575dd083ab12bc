package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/roster"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds one page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements roster.Fetcher at compile time.
var _ roster.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using headless Chrome, for team pages
// that build their member grid in JavaScript.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	pool     *browserPool
	timeout  time.Duration
	maxPages int
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPages sets how many pages are rendered before the browser is
// relaunched. Defaults to DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(f)
	}
	pool, err := newBrowserPool(f.maxPages)
	if err != nil {
		return nil, err
	}
	f.pool = pool
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
// Navigation failures are returned as *roster.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", roster.Errorf(roster.EINVALID, "fetcher closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := f.pool.acquire().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", &roster.FetchError{URL: url, Err: err}
	}
	defer page.Close()

	timeout := f.timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", &roster.FetchError{URL: url, Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return "", &roster.FetchError{URL: url, Err: err}
	}
	html, err := page.HTML()
	if err != nil {
		return "", &roster.FetchError{URL: url, Err: err}
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.pool.close()
}

// LauncherPID returns the process ID of the browser launcher, or 0 once
// closed.
func (f *Fetcher) LauncherPID() int {
	return f.pool.pid()
}
