package mock

import "github.com/fwojciec/refbook"

var _ refbook.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of refbook.Normalizer.
type Normalizer struct {
	NormalizeFn func(markup string, flatten bool) (string, error)
}

func (n *Normalizer) Normalize(markup string, flatten bool) (string, error) {
	return n.NormalizeFn(markup, flatten)
}
