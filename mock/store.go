package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/refbook"
)

var _ refbook.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of refbook.DocumentStore.
type DocumentStore struct {
	ExistsFn func(ctx context.Context, identifier string) (bool, error)
	LoadFn   func(ctx context.Context, identifier string) (*refbook.Document, error)
	SaveFn   func(ctx context.Context, doc *refbook.Document) error
}

func (s *DocumentStore) Exists(ctx context.Context, identifier string) (bool, error) {
	return s.ExistsFn(ctx, identifier)
}

func (s *DocumentStore) Load(ctx context.Context, identifier string) (*refbook.Document, error) {
	return s.LoadFn(ctx, identifier)
}

func (s *DocumentStore) Save(ctx context.Context, doc *refbook.Document) error {
	return s.SaveFn(ctx, doc)
}

var _ refbook.DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory refbook.DocumentStore for tests that need
// real persistence semantics. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]refbook.Document
}

// NewMemoryStore returns a MemoryStore seeded with docs.
func NewMemoryStore(docs ...*refbook.Document) *MemoryStore {
	s := &MemoryStore{docs: make(map[string]refbook.Document)}
	for _, doc := range docs {
		s.docs[doc.Identifier] = *doc
	}
	return s
}

func (s *MemoryStore) Exists(_ context.Context, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[identifier]
	return ok, nil
}

func (s *MemoryStore) Load(_ context.Context, identifier string) (*refbook.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[identifier]
	if !ok {
		return nil, refbook.Errorf(refbook.ENOTFOUND, "document %q not found", identifier)
	}
	return &doc, nil
}

func (s *MemoryStore) Save(_ context.Context, doc *refbook.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Identifier] = *doc
	return nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
