package refbook

import (
	"context"
	"strings"
	"time"
)

// Document is a fetched reference page after normalization.
type Document struct {
	Identifier  string    `json:"identifier"`
	SourceURL   string    `json:"sourceUrl"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Identifier == "" {
		return Errorf(EINVALID, "document identifier required")
	}
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	return nil
}

// DocumentStore persists documents keyed by identifier.
// Documents outlive a run and act as a content cache.
type DocumentStore interface {
	// Exists reports whether a document is stored for the identifier.
	Exists(ctx context.Context, identifier string) (bool, error)

	// Load retrieves the document for the identifier.
	// Returns ENOTFOUND if no document is stored.
	Load(ctx context.Context, identifier string) (*Document, error)

	// Save stores the document, replacing any previous version.
	// Each save is atomic for its identifier.
	Save(ctx context.Context, doc *Document) error
}

// StorageKey derives a filesystem-safe key from an identifier.
// Bytes outside [a-z0-9_-] are written as %XX with upper-case hex, so the
// mapping is injective even on case-insensitive filesystems.
func StorageKey(identifier string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(identifier) * 2)
	for i := 0; i < len(identifier); i++ {
		c := identifier[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0F])
		}
	}
	return b.String()
}
