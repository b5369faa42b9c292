package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/refbook"
)

// Ensure LoggingDocumentStore implements refbook.DocumentStore.
var _ refbook.DocumentStore = (*LoggingDocumentStore)(nil)

// LoggingDocumentStore wraps a DocumentStore with logging.
// Existence checks are logged at debug level since sync and print issue
// one per reference.
type LoggingDocumentStore struct {
	next   refbook.DocumentStore
	logger *slog.Logger
}

// NewLoggingDocumentStore creates a new LoggingDocumentStore.
func NewLoggingDocumentStore(next refbook.DocumentStore, logger *slog.Logger) *LoggingDocumentStore {
	return &LoggingDocumentStore{next: next, logger: logger}
}

func (s *LoggingDocumentStore) Exists(ctx context.Context, identifier string) (ok bool, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("document exists",
			"identifier", identifier,
			"exists", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Exists(ctx, identifier)
}

func (s *LoggingDocumentStore) Load(ctx context.Context, identifier string) (doc *refbook.Document, err error) {
	defer func(begin time.Time) {
		size := 0
		if doc != nil {
			size = len(doc.Content)
		}
		s.logger.Info("document load",
			"identifier", identifier,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx, identifier)
}

func (s *LoggingDocumentStore) Save(ctx context.Context, doc *refbook.Document) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("document save",
			"identifier", doc.Identifier,
			"hash", doc.ContentHash,
			"bytes", len(doc.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, doc)
}
