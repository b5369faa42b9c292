package refbook

// Normalizer prepares fetched reference markup for print.
type Normalizer interface {
	// Normalize removes navigation and page furniture from markup. When
	// flatten is true it also strips syntax-highlighting wrappers while
	// keeping their text. The same input always yields the same output.
	Normalize(markup string, flatten bool) (string, error)
}
