package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fwojciec/refbook"
)

// Compile-time interface verification.
var _ refbook.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements refbook.DocumentStore using SQLite.
// Each identifier maps to one row, replaced on every save.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore.
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Exists reports whether a document is stored for the identifier.
func (s *DocumentStore) Exists(ctx context.Context, identifier string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE identifier = ?", identifier).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Load retrieves the document for the identifier.
func (s *DocumentStore) Load(ctx context.Context, identifier string) (*refbook.Document, error) {
	var doc refbook.Document
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT identifier, source_url, content, content_hash, fetched_at
		FROM documents
		WHERE identifier = ?
	`, identifier).Scan(&doc.Identifier, &doc.SourceURL, &doc.Content, &doc.ContentHash, &fetchedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, refbook.Errorf(refbook.ENOTFOUND, "document not found: %s", identifier)
	}
	if err != nil {
		return nil, err
	}

	if doc.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save inserts or replaces the document in a single statement.
// A missing content hash is computed from the content.
func (s *DocumentStore) Save(ctx context.Context, doc *refbook.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	hash := doc.ContentHash
	if hash == "" {
		hash = hashContent(doc.Content)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (identifier, storage_key, source_url, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			source_url = excluded.source_url,
			content = excluded.content,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, doc.Identifier, refbook.StorageKey(doc.Identifier), doc.SourceURL, doc.Content, hash,
		formatTime(doc.FetchedAt))

	return err
}
