package slog_test

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/mock"
	rosterslog "github.com/fwojciec/roster/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("logs the team page candidate and the filter", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *roster.URLFilter) ([]string, error) {
				return []string{"https://acme.io/our-team", "https://acme.io/leadership"}, nil
			},
		}
		filter := &roster.URLFilter{Include: []*regexp.Regexp{regexp.MustCompile(`team`)}}

		svc := rosterslog.NewLoggingSitemapService(inner, debugLogger(&buf))
		urls, err := svc.DiscoverURLs(context.Background(), "https://acme.io", filter)

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		output := buf.String()
		assert.Contains(t, output, "sitemap search")
		assert.Contains(t, output, "site=https://acme.io")
		assert.Contains(t, output, "filter=team")
		assert.Contains(t, output, "matched=2")
		assert.Contains(t, output, "candidate=https://acme.io/our-team")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs none when unfiltered and error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *roster.URLFilter) ([]string, error) {
				return nil, errors.New("connection failed")
			},
		}

		svc := rosterslog.NewLoggingSitemapService(inner, debugLogger(&buf))
		_, err := svc.DiscoverURLs(context.Background(), "https://acme.io", nil)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "filter=none")
		assert.Contains(t, output, "matched=0")
		assert.Contains(t, output, "err=\"connection failed\"")
	})
}
