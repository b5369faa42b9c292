package mock

import (
	"iter"

	"github.com/fwojciec/refbook"
)

var _ refbook.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of refbook.Extractor.
type Extractor struct {
	ExtractFn func(document string, source []byte) iter.Seq2[refbook.Candidate, error]
}

func (e *Extractor) Extract(document string, source []byte) iter.Seq2[refbook.Candidate, error] {
	return e.ExtractFn(document, source)
}
