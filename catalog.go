package refbook

import (
	"errors"
	"iter"
)

// Source is one structured text document from the content directory.
type Source struct {
	Name string
	Data []byte
}

// Collection holds the candidates gathered from all sources together with
// the rows that were skipped as malformed.
type Collection struct {
	Candidates []Candidate
	Skipped    []*ParseSkip
}

// Collect runs the extractor over every source. Collection never fails on
// malformed rows; they are gathered in Skipped. Only source read errors and
// non-skip extractor errors are returned.
func Collect(sources iter.Seq2[Source, error], ex Extractor) (*Collection, error) {
	var c Collection
	for src, err := range sources {
		if err != nil {
			return nil, err
		}
		for cand, err := range ex.Extract(src.Name, src.Data) {
			var skip *ParseSkip
			switch {
			case errors.As(err, &skip):
				c.Skipped = append(c.Skipped, skip)
			case err != nil:
				return nil, err
			default:
				c.Candidates = append(c.Candidates, cand)
			}
		}
	}
	return &c, nil
}
