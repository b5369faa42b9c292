package refbook_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	urlAlgorithm = "https://en.cppreference.com/w/cpp/algorithm"
	urlVector    = "https://en.cppreference.com/w/cpp/container/vector"
	urlMidpoint  = "https://en.cppreference.com/w/cpp/numeric/midpoint"
	urlLerp      = "https://en.cppreference.com/w/cpp/numeric/lerp"
)

func candidate(id, url, doc string, line int) refbook.Candidate {
	return refbook.Candidate{
		Identifier: id,
		URL:        url,
		Location:   refbook.Location{Document: doc, Line: line},
	}
}

func identifiers(refs []refbook.Reference) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.Identifier
	}
	return ids
}

func TestBuildRegistry(t *testing.T) {
	t.Parallel()

	t.Run("orders deduplicated references hierarchically", func(t *testing.T) {
		t.Parallel()

		// Given identifiers from one document, two sharing a URL
		candidates := []refbook.Candidate{
			candidate("std::sort", urlAlgorithm, "algorithms.md", 3),
			candidate("std::binary_search", urlAlgorithm, "algorithms.md", 4),
			candidate("std::vector", urlVector, "containers.md", 2),
		}

		// When the registry is built
		reg, err := refbook.BuildRegistry(slices.Values(candidates))

		// Then the list is ordered and conflict free
		require.NoError(t, err)
		assert.Equal(t, []string{"std::binary_search", "std::sort", "std::vector"}, identifiers(reg.OrderedList()))
		assert.Equal(t, 3, reg.Len())
	})

	t.Run("merges locations for the same identifier and URL", func(t *testing.T) {
		t.Parallel()

		candidates := []refbook.Candidate{
			candidate("std::midpoint", urlMidpoint, "a.md", 3),
			candidate("std::midpoint", urlMidpoint, "b.md", 8),
		}

		reg, err := refbook.BuildRegistry(slices.Values(candidates))

		require.NoError(t, err)
		ref, ok := reg.Lookup("std::midpoint")
		require.True(t, ok)
		assert.Equal(t, urlMidpoint, ref.URL)
		assert.Equal(t, []refbook.Location{
			{Document: "a.md", Line: 3},
			{Document: "b.md", Line: 8},
		}, ref.Locations)
	})

	t.Run("fails on the first conflicting URL citing both locations", func(t *testing.T) {
		t.Parallel()

		// Given std::midpoint with two different URLs in two documents
		candidates := []refbook.Candidate{
			candidate("std::midpoint", urlMidpoint, "a.md", 3),
			candidate("std::midpoint", urlLerp, "b.md", 7),
			candidate("std::lerp", urlLerp, "b.md", 9),
			candidate("std::lerp", urlMidpoint, "c.md", 1),
		}

		// When the registry is built
		reg, err := refbook.BuildRegistry(slices.Values(candidates))

		// Then no registry is produced and the first conflict is reported
		require.Error(t, err)
		assert.Nil(t, reg)

		var conflict *refbook.ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "std::midpoint", conflict.Identifier)
		assert.Equal(t, urlMidpoint, conflict.Existing.URL)
		assert.Equal(t, []refbook.Location{{Document: "a.md", Line: 3}}, conflict.Existing.Locations)
		assert.Equal(t, urlLerp, conflict.URL)
		assert.Equal(t, refbook.Location{Document: "b.md", Line: 7}, conflict.Location)
		assert.Equal(t, refbook.ECONFLICT, refbook.ErrorCode(err))
	})

	t.Run("stops consuming candidates after the first conflict", func(t *testing.T) {
		t.Parallel()

		consumed := 0
		seq := func(yield func(refbook.Candidate) bool) {
			for _, c := range []refbook.Candidate{
				candidate("std::midpoint", urlMidpoint, "a.md", 1),
				candidate("std::midpoint", urlLerp, "b.md", 1),
				candidate("std::vector", urlVector, "c.md", 1),
			} {
				consumed++
				if !yield(c) {
					return
				}
			}
		}

		_, err := refbook.BuildRegistry(seq)

		require.Error(t, err)
		assert.Equal(t, 2, consumed)
	})

	t.Run("is idempotent on a reapplied candidate set", func(t *testing.T) {
		t.Parallel()

		candidates := []refbook.Candidate{
			candidate("std::vector", urlVector, "containers.md", 2),
			candidate("std::sort", urlAlgorithm, "algorithms.md", 3),
		}
		twice := append(slices.Clone(candidates), candidates...)

		once, err := refbook.BuildRegistry(slices.Values(candidates))
		require.NoError(t, err)
		again, err := refbook.BuildRegistry(slices.Values(twice))
		require.NoError(t, err)

		assert.Equal(t, identifiers(once.OrderedList()), identifiers(again.OrderedList()))
	})

	t.Run("keeps the first version annotation", func(t *testing.T) {
		t.Parallel()

		first := candidate("std::midpoint", urlMidpoint, "a.md", 1)
		second := candidate("std::midpoint", urlMidpoint, "b.md", 1)
		second.Version = "C++20"

		reg, err := refbook.BuildRegistry(slices.Values([]refbook.Candidate{first, second}))

		require.NoError(t, err)
		ref, _ := reg.Lookup("std::midpoint")
		assert.Equal(t, "C++20", ref.Version)
	})
}

func TestRegistry_OrderedList(t *testing.T) {
	t.Parallel()

	t.Run("is stable across calls and returns copies", func(t *testing.T) {
		t.Parallel()

		reg, err := refbook.BuildRegistry(slices.Values([]refbook.Candidate{
			candidate("b", urlVector, "x.md", 1),
			candidate("a::c", urlVector, "x.md", 2),
			candidate("a", urlVector, "x.md", 3),
			candidate("a::b", urlVector, "x.md", 4),
		}))
		require.NoError(t, err)

		first := reg.OrderedList()
		first[0].Identifier = "mutated"
		first[0].Locations[0].Line = 99
		second := reg.OrderedList()

		assert.Equal(t, []string{"a", "a::b", "a::c", "b"}, identifiers(second))
		assert.Equal(t, 3, second[0].Locations[0].Line)
		assert.Equal(t, []string{"a", "a::b", "a::c", "b"}, reg.Identifiers())
	})
}

func TestRegistry_Missing(t *testing.T) {
	t.Parallel()

	reg, err := refbook.BuildRegistry(slices.Values([]refbook.Candidate{
		candidate("std::vector", urlVector, "x.md", 1),
		candidate("std::sort", urlAlgorithm, "x.md", 2),
		candidate("std::lerp", urlLerp, "x.md", 3),
	}))
	require.NoError(t, err)

	t.Run("lists identifiers without stored documents in order", func(t *testing.T) {
		t.Parallel()

		store := &mock.DocumentStore{
			ExistsFn: func(_ context.Context, id string) (bool, error) {
				return id == "std::sort", nil
			},
		}

		missing, err := reg.Missing(context.Background(), store)

		require.NoError(t, err)
		assert.Equal(t, []string{"std::lerp", "std::vector"}, missing)
	})

	t.Run("returns store errors", func(t *testing.T) {
		t.Parallel()

		store := &mock.DocumentStore{
			ExistsFn: func(_ context.Context, _ string) (bool, error) {
				return false, errors.New("disk error")
			},
		}

		_, err := reg.Missing(context.Background(), store)

		require.Error(t, err)
	})
}
