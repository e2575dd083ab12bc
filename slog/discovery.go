package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/roster"
)

// Ensure LoggingTeamPageDiscoverer implements roster.TeamPageDiscoverer.
var _ roster.TeamPageDiscoverer = (*LoggingTeamPageDiscoverer)(nil)

// LoggingTeamPageDiscoverer wraps a TeamPageDiscoverer with logging.
type LoggingTeamPageDiscoverer struct {
	next   roster.TeamPageDiscoverer
	logger *slog.Logger
}

// NewLoggingTeamPageDiscoverer creates a new LoggingTeamPageDiscoverer.
func NewLoggingTeamPageDiscoverer(next roster.TeamPageDiscoverer, logger *slog.Logger) *LoggingTeamPageDiscoverer {
	return &LoggingTeamPageDiscoverer{next: next, logger: logger}
}

// DiscoverTeamPage delegates to the wrapped discoverer and logs the page
// found.
func (d *LoggingTeamPageDiscoverer) DiscoverTeamPage(ctx context.Context, baseURL string) (teamURL string, err error) {
	defer func(begin time.Time) {
		d.logger.Info("team page discovery",
			"url", baseURL,
			"found", teamURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.DiscoverTeamPage(ctx, baseURL)
}
