// Package http provides net/http implementations of roster.Fetcher,
// roster.Prober and roster.SitemapService for static sites that don't
// require JavaScript rendering.
package http

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/fwojciec/roster"
	"golang.org/x/net/publicsuffix"
)

// DefaultFetchTimeout bounds a single request when the context carries no
// earlier deadline.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the fetcher to the sites it visits.
const DefaultUserAgent = "Mozilla/5.0 (compatible; roster/1.0; +https://github.com/fwojciec/roster)"

// maxBodySize caps how much of a page is read.
const maxBodySize = 10 << 20

// Ensure Fetcher implements roster.Fetcher and roster.Prober at compile time.
var (
	_ roster.Fetcher = (*Fetcher)(nil)
	_ roster.Prober  = (*Fetcher)(nil)
)

// Fetcher retrieves HTML with plain HTTP requests. Cookies set by a site are
// kept for the lifetime of the Fetcher, scoped by public suffix.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the client timeout for each request.
// Defaults to DefaultFetchTimeout; non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header. Defaults to DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	// cookiejar.New never returns an error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	f.client = &http.Client{
		Timeout: f.timeout,
		Jar:     jar,
	}
	return f
}

// Client returns the underlying HTTP client, so other services can share its
// cookie jar.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Fetch retrieves the HTML at url. A response other than 200 OK is returned
// as a *roster.FetchError carrying the status code; transport failures are
// wrapped in one with a zero status.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.do(ctx, http.MethodGet, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &roster.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &roster.FetchError{URL: url, Err: err}
	}
	return string(body), nil
}

// Exists reports whether url answers 200 OK after redirects. It sends HEAD
// and falls back to GET for servers that reject HEAD with 405 or 501.
func (f *Fetcher) Exists(ctx context.Context, url string) (bool, error) {
	resp, err := f.do(ctx, http.MethodHead, url)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		resp, err = f.do(ctx, http.MethodGet, url)
		if err != nil {
			return false, err
		}
		resp.Body.Close()
	}
	return resp.StatusCode == http.StatusOK, nil
}

// Close releases resources. It drops idle keep-alive connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

func (f *Fetcher) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, roster.Errorf(roster.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &roster.FetchError{URL: url, Err: err}
	}
	return resp, nil
}
