package mock

import "github.com/fwojciec/refbook"

var _ refbook.Converter = (*Converter)(nil)

// Converter is a mock implementation of refbook.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
