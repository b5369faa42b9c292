package refbook_test

import (
	"slices"
	"testing"

	"github.com/fwojciec/refbook"
	"github.com/stretchr/testify/assert"
)

func TestSegments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, refbook.SegmentKey{"std", "ranges", "sort"}, refbook.Segments("std::ranges::sort"))
	assert.Equal(t, refbook.SegmentKey{"size_t"}, refbook.Segments("size_t"))
}

func TestCompareIdentifiers(t *testing.T) {
	t.Parallel()

	t.Run("prefix sorts before its extensions", func(t *testing.T) {
		t.Parallel()

		assert.Negative(t, refbook.CompareIdentifiers("a", "a::b"))
		assert.Negative(t, refbook.CompareIdentifiers("a::b", "a::c"))
		assert.Negative(t, refbook.CompareIdentifiers("a::c", "b"))
		assert.Negative(t, refbook.CompareIdentifiers("a", "b"))
	})

	t.Run("compares segment by segment", func(t *testing.T) {
		t.Parallel()

		assert.Negative(t, refbook.CompareIdentifiers("std::ranges::sort", "std::ranges_x"))
		assert.Negative(t, refbook.CompareIdentifiers("std::vector", "std::vector::at"))
		assert.Positive(t, refbook.CompareIdentifiers("std::vector::at", "std::vector"))
		assert.Negative(t, refbook.CompareIdentifiers("std::a::z", "std::b"))
	})

	t.Run("equal only for identical identifiers", func(t *testing.T) {
		t.Parallel()

		assert.Zero(t, refbook.CompareIdentifiers("std::sort", "std::sort"))
		assert.NotZero(t, refbook.CompareIdentifiers("std::sort", "std::sort::"))
	})

	t.Run("is a strict total order", func(t *testing.T) {
		t.Parallel()

		ids := []string{
			"", "::", "a", "a::", "a::b", "a::c", "a::b::c", "b", "a_b",
			"std", "std::sort", "std::binary_search", "std::vector",
			"std::vector::push_back", "std::ranges::sort", "std::ranges",
		}

		for _, a := range ids {
			for _, b := range ids {
				ab := refbook.CompareIdentifiers(a, b)
				ba := refbook.CompareIdentifiers(b, a)
				assert.Equal(t, -ab, ba, "antisymmetry for %q, %q", a, b)
				if a != b {
					assert.NotZero(t, ab, "distinct %q, %q compare equal", a, b)
				}
				for _, c := range ids {
					if ab < 0 && refbook.CompareIdentifiers(b, c) < 0 {
						assert.Negative(t, refbook.CompareIdentifiers(a, c), "transitivity for %q < %q < %q", a, b, c)
					}
				}
			}
		}
	})

	t.Run("sorts a catalog hierarchically", func(t *testing.T) {
		t.Parallel()

		ids := []string{"b", "a::c", "a", "a::b::z", "a::b"}

		slices.SortFunc(ids, refbook.CompareIdentifiers)

		assert.Equal(t, []string{"a", "a::b", "a::b::z", "a::c", "b"}, ids)
	})
}
