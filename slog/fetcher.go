package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/roster"
)

// Ensure LoggingFetcher implements roster.Fetcher.
var _ roster.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   roster.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next roster.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the result.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingProber implements roster.Prober.
var _ roster.Prober = (*LoggingProber)(nil)

// LoggingProber wraps a Prober with debug logging.
type LoggingProber struct {
	next   roster.Prober
	logger *slog.Logger
}

// NewLoggingProber creates a new LoggingProber.
func NewLoggingProber(next roster.Prober, logger *slog.Logger) *LoggingProber {
	return &LoggingProber{next: next, logger: logger}
}

// Exists delegates to the wrapped prober and logs the result.
func (p *LoggingProber) Exists(ctx context.Context, url string) (ok bool, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("probe",
			"url", url,
			"exists", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Exists(ctx, url)
}
