// Package goquery normalizes fetched reference pages for print using
// CSS selectors.
package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/refbook"
	"golang.org/x/net/html"
)

// Ensure Normalizer implements refbook.Normalizer at compile time.
var _ refbook.Normalizer = (*Normalizer)(nil)

// DefaultFurniture selects site navigation, edit links, scripts and other
// page chrome of the MediaWiki layout used by cppreference.
var DefaultFurniture = []string{
	"#cpp-head-first-base",
	"#cpp-head-second-base",
	"#mw-head",
	"#cpp-footer-base",
	".t-navbar",
	"#siteSub",
	"#contentSub",
	".printfooter",
	"#catlinks",
	".editsection",
	"#mw-js-message",
	".t-langlinks",
	"script",
	"noscript",
	"nav",
}

// DefaultHighlight selects the containers of syntax-highlighted code.
var DefaultHighlight = []string{
	"pre",
	"code",
	".mw-geshi",
	".source-cpp",
}

// Normalizer strips page furniture and optionally flattens syntax
// highlighting. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	furniture []string
	highlight string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithFurniture replaces the selectors of elements removed from every page.
func WithFurniture(selectors []string) Option {
	return func(n *Normalizer) {
		n.furniture = selectors
	}
}

// WithHighlight replaces the selectors of highlighted code containers.
func WithHighlight(selectors []string) Option {
	return func(n *Normalizer) {
		n.highlight = strings.Join(selectors, ", ")
	}
}

// NewNormalizer creates a Normalizer with the default selectors.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		furniture: DefaultFurniture,
		highlight: strings.Join(DefaultHighlight, ", "),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns markup without page furniture. With flatten set, spans
// inside highlight containers are unwrapped to their text and presentation
// attributes are dropped, so code prints as plain monochrome text.
func (n *Normalizer) Normalize(markup string, flatten bool) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", refbook.Errorf(refbook.EINVALID, "empty markup")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", refbook.Errorf(refbook.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, sel := range n.furniture {
		doc.Find(sel).Remove()
	}

	if flatten && n.highlight != "" {
		flattenHighlight(doc.Find(n.highlight))
	}

	var buf bytes.Buffer
	for _, node := range doc.Nodes {
		if err := html.Render(&buf, node); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// flattenHighlight unwraps every span below the containers and drops class
// and style attributes from the containers and their descendants.
func flattenHighlight(containers *goquery.Selection) {
	containers.Find("span").Each(func(_ int, span *goquery.Selection) {
		span.ReplaceWithSelection(span.Contents())
	})

	for _, sel := range []*goquery.Selection{containers, containers.Find("*")} {
		sel.RemoveAttr("class").RemoveAttr("style")
	}
}
