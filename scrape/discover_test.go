package scrape_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/mock"
	"github.com/fwojciec/roster/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// existing returns a prober that answers true for the given URLs and
// records every probe.
func existing(probed *[]string, urls ...string) *mock.Prober {
	var mu sync.Mutex
	set := make(map[string]bool, len(urls))
	for _, u := range urls {
		set[u] = true
	}
	return &mock.Prober{
		ExistsFn: func(_ context.Context, url string) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			*probed = append(*probed, url)
			return set[url], nil
		},
	}
}

func TestTeamPageFinder_DiscoverTeamPage(t *testing.T) {
	t.Parallel()

	t.Run("returns the first existing probe path", func(t *testing.T) {
		t.Parallel()

		var probed []string
		f := &scrape.TeamPageFinder{
			Prober: existing(&probed, "https://acme.io/our-team", "https://acme.io/team"),
			Paths:  []string{"/leadership-team", "/our-team", "/team"},
		}

		got, err := f.DiscoverTeamPage(context.Background(), "https://acme.io/")

		require.NoError(t, err)
		assert.Equal(t, "https://acme.io/our-team", got)
		assert.Equal(t, []string{"https://acme.io/leadership-team", "https://acme.io/our-team"}, probed)
	})

	t.Run("falls back to homepage links and skips probed candidates", func(t *testing.T) {
		t.Parallel()

		var probed []string
		f := &scrape.TeamPageFinder{
			Prober: existing(&probed, "https://acme.io/who-we-are"),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					assert.Equal(t, "https://acme.io", url)
					return "<html></html>", nil
				},
			},
			Links: &mock.LinkDiscoverer{
				TeamPageLinksFn: func(_, _ string) ([]string, error) {
					return []string{"https://acme.io/team", "https://acme.io/who-we-are"}, nil
				},
			},
			Paths: []string{"/team"},
		}

		got, err := f.DiscoverTeamPage(context.Background(), "https://acme.io")

		require.NoError(t, err)
		assert.Equal(t, "https://acme.io/who-we-are", got)
		assert.Equal(t, []string{"https://acme.io/team", "https://acme.io/who-we-are"}, probed)
	})

	t.Run("falls back to sitemap URLs with a keyword in the path", func(t *testing.T) {
		t.Parallel()

		var probed []string
		f := &scrape.TeamPageFinder{
			Prober: existing(&probed),
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string, filter *roster.URLFilter) ([]string, error) {
					var out []string
					for _, u := range []string{
						"https://team.acme.io/pricing",
						"https://acme.io/blog/hello",
						"https://acme.io/company/Leadership",
					} {
						if filter.Match(u) {
							out = append(out, u)
						}
					}
					return out, nil
				},
			},
			Paths: []string{"/team"},
		}

		got, err := f.DiscoverTeamPage(context.Background(), "https://acme.io")

		require.NoError(t, err)
		assert.Equal(t, "https://acme.io/company/Leadership", got)
	})

	t.Run("returns ENOTEAMPAGE when every step fails", func(t *testing.T) {
		t.Parallel()

		var probed []string
		f := &scrape.TeamPageFinder{
			Prober: existing(&probed),
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					return "", &roster.FetchError{URL: url, StatusCode: 404}
				},
			},
			Links: &mock.LinkDiscoverer{},
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, _ string, _ *roster.URLFilter) ([]string, error) {
					return nil, errors.New("no sitemap")
				},
			},
			Paths: []string{"/team"},
		}

		_, err := f.DiscoverTeamPage(context.Background(), "https://acme.io")

		assert.Equal(t, roster.ENOTEAMPAGE, roster.ErrorCode(err))
	})

	t.Run("treats probe errors as absent", func(t *testing.T) {
		t.Parallel()

		f := &scrape.TeamPageFinder{
			Prober: &mock.Prober{
				ExistsFn: func(_ context.Context, _ string) (bool, error) {
					return true, errors.New("connection reset")
				},
			},
			Paths: []string{"/team"},
		}

		_, err := f.DiscoverTeamPage(context.Background(), "https://acme.io")

		assert.Equal(t, roster.ENOTEAMPAGE, roster.ErrorCode(err))
	})

	t.Run("rejects invalid base URL", func(t *testing.T) {
		t.Parallel()

		f := &scrape.TeamPageFinder{Prober: &mock.Prober{}}

		for _, u := range []string{"", "acme.io", "ftp://acme.io", "https://"} {
			_, err := f.DiscoverTeamPage(context.Background(), u)
			assert.Equal(t, roster.EINVALID, roster.ErrorCode(err), u)
		}
	})

	t.Run("returns the context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		f := &scrape.TeamPageFinder{
			Prober: &mock.Prober{
				ExistsFn: func(_ context.Context, _ string) (bool, error) {
					cancel()
					return false, context.Canceled
				},
			},
			Paths: []string{"/team", "/people"},
		}

		_, err := f.DiscoverTeamPage(ctx, "https://acme.io")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
