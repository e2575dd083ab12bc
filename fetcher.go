package roster

import (
	"context"
	"fmt"
)

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the URL and returns its HTML.
	// A response with a non-200 status is reported as a *FetchError.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Prober checks whether a URL exists without downloading its body.
type Prober interface {
	// Exists reports whether the URL answers with 200 OK after redirects.
	Exists(ctx context.Context, url string) (bool, error)
}

// FetchError describes a failed page fetch. StatusCode is zero when the
// request never produced a response (network failure, timeout).
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}
