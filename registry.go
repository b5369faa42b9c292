package refbook

import (
	"context"
	"iter"
	"slices"
	"strings"
)

// Registry is an immutable, deduplicated catalog of references in
// hierarchical order. Build one with BuildRegistry.
type Registry struct {
	entries []entry
	index   map[string]int
}

// entry pairs a reference with its cached segment key.
type entry struct {
	ref Reference
	key SegmentKey
}

// BuildRegistry validates candidates into a Registry.
//
// Candidates with an unseen identifier are inserted. A repeated identifier
// with the same URL merges its location. A repeated identifier with a
// different URL stops the build with a *ConflictError for that first
// conflict; no registry is returned.
func BuildRegistry(candidates iter.Seq[Candidate]) (*Registry, error) {
	var entries []entry
	index := make(map[string]int)

	for c := range candidates {
		i, ok := index[c.Identifier]
		if !ok {
			index[c.Identifier] = len(entries)
			entries = append(entries, entry{
				ref: Reference{
					Identifier: c.Identifier,
					URL:        c.URL,
					Version:    c.Version,
					Locations:  []Location{c.Location},
				},
				key: Segments(c.Identifier),
			})
			continue
		}

		ref := &entries[i].ref
		if ref.URL != c.URL {
			return nil, &ConflictError{
				Identifier: c.Identifier,
				Existing:   ref.clone(),
				URL:        c.URL,
				Location:   c.Location,
			}
		}
		ref.Locations = append(ref.Locations, c.Location)
		if ref.Version == "" {
			ref.Version = c.Version
		}
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if c := CompareSegments(a.key, b.key); c != 0 {
			return c
		}
		return strings.Compare(a.ref.Identifier, b.ref.Identifier)
	})
	for i, e := range entries {
		index[e.ref.Identifier] = i
	}

	return &Registry{entries: entries, index: index}, nil
}

// Len returns the number of references.
func (r *Registry) Len() int {
	return len(r.entries)
}

// OrderedList returns copies of all references in hierarchical order.
func (r *Registry) OrderedList() []Reference {
	refs := make([]Reference, len(r.entries))
	for i, e := range r.entries {
		refs[i] = e.ref.clone()
	}
	return refs
}

// Identifiers returns all identifiers in hierarchical order.
func (r *Registry) Identifiers() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.ref.Identifier
	}
	return ids
}

// Lookup returns a copy of the reference for id.
func (r *Registry) Lookup(id string) (Reference, bool) {
	i, ok := r.index[id]
	if !ok {
		return Reference{}, false
	}
	return r.entries[i].ref.clone(), true
}

// Missing returns, in hierarchical order, the identifiers that have no
// document in store.
func (r *Registry) Missing(ctx context.Context, store DocumentStore) ([]string, error) {
	var missing []string
	for _, e := range r.entries {
		ok, err := store.Exists(ctx, e.ref.Identifier)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, e.ref.Identifier)
		}
	}
	return missing, nil
}
