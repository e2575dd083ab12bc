package slog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/roster"
)

var _ roster.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each sitemap lookup made while searching a
// site for its team page.
type LoggingSitemapService struct {
	next   roster.SitemapService
	logger *slog.Logger
}

func NewLoggingSitemapService(next roster.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs logs the site, the keyword filter in use, how many sitemap
// URLs matched and the first match, which is the team page candidate.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *roster.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		var first string
		if len(urls) > 0 {
			first = urls[0]
		}
		s.logger.Debug("sitemap search",
			"site", baseURL,
			"filter", describeFilter(filter),
			"matched", len(urls),
			"candidate", first,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}

// describeFilter renders the include patterns of filter, or "none".
func describeFilter(filter *roster.URLFilter) string {
	if filter == nil || len(filter.Include) == 0 {
		return "none"
	}
	patterns := make([]string, len(filter.Include))
	for i, re := range filter.Include {
		patterns[i] = re.String()
	}
	return strings.Join(patterns, ",")
}
