package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/roster"
)

// Ensure LoggingIndexer implements roster.Indexer.
var _ roster.Indexer = (*LoggingIndexer)(nil)

// LoggingIndexer wraps an Indexer with logging.
type LoggingIndexer struct {
	next   roster.Indexer
	logger *slog.Logger
}

// NewLoggingIndexer creates a new LoggingIndexer.
func NewLoggingIndexer(next roster.Indexer, logger *slog.Logger) *LoggingIndexer {
	return &LoggingIndexer{next: next, logger: logger}
}

// Reindex delegates to the wrapped indexer and logs the operation.
func (ix *LoggingIndexer) Reindex(ctx context.Context, profiles []*roster.Profile) (err error) {
	defer func(begin time.Time) {
		ix.logger.Info("reindex",
			"fresh", len(profiles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return ix.next.Reindex(ctx, profiles)
}
