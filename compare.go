package refbook

import "strings"

// Separator divides an identifier into hierarchical segments.
const Separator = "::"

// SegmentKey is an identifier split on Separator. It is used only for
// comparison.
type SegmentKey []string

// Segments splits id into its segment key.
func Segments(id string) SegmentKey {
	return strings.Split(id, Separator)
}

// CompareSegments orders two segment keys segment by segment using ordinary
// string order. A strict prefix sorts before any of its extensions, so
// "a" < "a::b" < "a::c" < "b".
func CompareSegments(a, b SegmentKey) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// CompareIdentifiers is the hierarchical order over identifiers.
// Ties on segments fall back to the raw strings, keeping the order total.
func CompareIdentifiers(a, b string) int {
	if c := CompareSegments(Segments(a), Segments(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
