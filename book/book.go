// Package book binds stored reference documents into one printable HTML
// document in catalog order.
package book

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/refbook"
)

// DefaultTitle is used when Binder.Title is empty.
const DefaultTitle = "C++ Reference"

// printStyle starts every entry on a new page.
const printStyle = `<style>
.refbook-entry { break-before: page; }
.refbook-source { font-size: smaller; }
@media print { .refbook-toc a { text-decoration: none; } }
</style>`

// Binder assembles stored documents into a single HTML document.
type Binder struct {
	Store      refbook.DocumentStore
	Normalizer refbook.Normalizer
	Title      string
}

// Options controls assembly.
type Options struct {
	// Flatten strips syntax highlighting for monochrome print.
	Flatten bool
}

// entry is one document prepared for binding.
type entry struct {
	ref    refbook.Reference
	source string
	styles []string
	body   string
}

// Assemble returns the concatenated document for every reference in reg.
// It fails with *refbook.MissingDocumentError, listing every missing
// identifier in catalog order, if any document has not been stored.
func (b *Binder) Assemble(ctx context.Context, reg *refbook.Registry, opts Options) (string, error) {
	missing, err := reg.Missing(ctx, b.Store)
	if err != nil {
		return "", err
	}
	if len(missing) > 0 {
		return "", &refbook.MissingDocumentError{Identifier: missing[0], Identifiers: missing}
	}

	refs := reg.OrderedList()
	entries := make([]entry, 0, len(refs))
	for _, ref := range refs {
		e, err := b.prepare(ctx, ref, opts)
		if err != nil {
			return "", err
		}
		entries = append(entries, e)
	}

	return b.render(entries), nil
}

// prepare loads and normalizes one document and splits it into the head
// styles and the body markup.
func (b *Binder) prepare(ctx context.Context, ref refbook.Reference, opts Options) (entry, error) {
	doc, err := b.Store.Load(ctx, ref.Identifier)
	if refbook.ErrorCode(err) == refbook.ENOTFOUND {
		return entry{}, &refbook.MissingDocumentError{Identifier: ref.Identifier, Identifiers: []string{ref.Identifier}}
	}
	if err != nil {
		return entry{}, fmt.Errorf("load %s: %w", ref.Identifier, err)
	}

	markup, err := b.Normalizer.Normalize(doc.Content, opts.Flatten)
	if err != nil {
		return entry{}, fmt.Errorf("normalize %s: %w", ref.Identifier, err)
	}

	source := doc.SourceURL
	if source == "" {
		source = ref.URL
	}
	base, err := url.Parse(source)
	if err != nil {
		return entry{}, refbook.Errorf(refbook.EINVALID, "invalid source URL for %s: %v", ref.Identifier, err)
	}

	page, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return entry{}, refbook.Errorf(refbook.EINVALID, "failed to parse %s: %v", ref.Identifier, err)
	}
	absolutize(page, base)

	e := entry{ref: ref, source: source}
	page.Find(`head link[rel~="stylesheet"], head style`).Each(func(_ int, sel *goquery.Selection) {
		if s, err := goquery.OuterHtml(sel); err == nil {
			e.styles = append(e.styles, s)
		}
	})
	if e.body, err = page.Find("body").Html(); err != nil {
		return entry{}, fmt.Errorf("render %s: %w", ref.Identifier, err)
	}
	return e, nil
}

// render writes the final document: head with deduplicated styles, table of
// contents, then one section per entry.
func (b *Binder) render(entries []entry) string {
	title := b.Title
	if title == "" {
		title = DefaultTitle
	}

	var out strings.Builder
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(title))

	seen := make(map[string]bool)
	for _, e := range entries {
		for _, s := range e.styles {
			if seen[s] {
				continue
			}
			seen[s] = true
			out.WriteString(s)
			out.WriteByte('\n')
		}
	}
	out.WriteString(printStyle)
	out.WriteString("\n</head>\n<body>\n")

	fmt.Fprintf(&out, "<h1 class=\"refbook-title\">%s</h1>\n", html.EscapeString(title))
	out.WriteString("<nav class=\"refbook-toc\">\n<ol>\n")
	for _, e := range entries {
		fmt.Fprintf(&out, "<li><a href=\"#%s\">%s</a></li>\n",
			html.EscapeString(anchor(e.ref.Identifier)), html.EscapeString(e.ref.Identifier))
	}
	out.WriteString("</ol>\n</nav>\n")

	for _, e := range entries {
		fmt.Fprintf(&out, "<section class=\"refbook-entry\" id=\"%s\">\n", html.EscapeString(anchor(e.ref.Identifier)))
		fmt.Fprintf(&out, "<h1 class=\"refbook-heading\">%s</h1>\n", html.EscapeString(e.ref.Identifier))
		fmt.Fprintf(&out, "<p class=\"refbook-source\"><a href=\"%s\">%s</a></p>\n",
			html.EscapeString(e.source), html.EscapeString(e.source))
		out.WriteString(e.body)
		out.WriteString("\n</section>\n")
	}

	out.WriteString("</body>\n</html>\n")
	return out.String()
}

// anchor returns the element id of an identifier's section.
func anchor(identifier string) string {
	return "ref-" + refbook.StorageKey(identifier)
}
