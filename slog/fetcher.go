// Package slog provides logging decorators for refbook services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/refbook"
)

// Ensure LoggingFetcher implements refbook.Fetcher.
var _ refbook.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   refbook.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next refbook.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome. Failures are
// logged at warn level with their error code so permanent and transient
// failures can be told apart.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if err != nil {
			f.logger.WarnContext(ctx, "fetch failed", append(attrs, "code", refbook.ErrorCode(err), "err", err)...)
			return
		}
		f.logger.InfoContext(ctx, "fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
