// Package goldmark extracts reference candidates from markdown tables
// using the goldmark parser.
package goldmark

import (
	"bytes"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/adrg/frontmatter"
	"github.com/fwojciec/refbook"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Ensure Extractor implements refbook.Extractor at compile time.
var _ refbook.Extractor = (*Extractor)(nil)

// versionRe matches a parenthesized version tag at the start of a text run.
var versionRe = regexp.MustCompile(`^\s*\(([^()]+)\)`)

// Extractor finds table rows that link a code-span identifier to a page
// under the reference base URL, e.g.
//
//	| X [`std::midpoint`](https://en.cppreference.com/w/cpp/numeric/midpoint) (C++20) | ... |
type Extractor struct {
	baseURL string
	md      goldmark.Markdown
}

// NewExtractor creates an Extractor for links under baseURL.
func NewExtractor(baseURL string) *Extractor {
	return &Extractor{
		baseURL: baseURL,
		md:      goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Extract returns the candidates of one markdown document in document order.
// YAML front matter is ignored; line numbers refer to the original source.
func (e *Extractor) Extract(document string, source []byte) iter.Seq2[refbook.Candidate, error] {
	return func(yield func(refbook.Candidate, error) bool) {
		body, offset, err := stripFrontMatter(source)
		if err != nil {
			skip := &refbook.ParseSkip{
				Location: refbook.Location{Document: document, Line: 1},
				Reason:   "invalid front matter: " + err.Error(),
			}
			if !yield(refbook.Candidate{}, skip) {
				return
			}
			body, offset = source, 0
		}

		s := &scan{
			baseURL:  e.baseURL,
			document: document,
			source:   body,
			offset:   offset,
			yield:    yield,
		}
		root := e.md.Parser().Parse(text.NewReader(body))
		_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			var more bool
			switch n := n.(type) {
			case *extast.TableHeader, *extast.TableRow:
				more = s.row(n)
			case *ast.Paragraph, *ast.TextBlock:
				// Pipe rows that did not form a valid table.
				more = s.pipeRows(n)
			default:
				return ast.WalkContinue, nil
			}
			if !more {
				return ast.WalkStop, nil
			}
			return ast.WalkSkipChildren, nil
		})
	}
}

// yamlFrontMatter restricts front matter detection to YAML blocks.
var yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// stripFrontMatter returns the markdown body and the number of lines the
// front matter occupied.
func stripFrontMatter(source []byte) ([]byte, int, error) {
	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, yamlFrontMatter)
	if err != nil {
		return nil, 0, err
	}
	return body, bytes.Count(source, []byte("\n")) - bytes.Count(body, []byte("\n")), nil
}

// scan holds the state of one pass over a document.
type scan struct {
	baseURL  string
	document string
	source   []byte
	offset   int
	lastLine int
	yield    func(refbook.Candidate, error) bool
}

// pipeRows treats every source line of a text block that starts with a pipe
// as a row of its own, grouping the block's inline children by line.
func (s *scan) pipeRows(block ast.Node) bool {
	lines := block.Lines()
	if lines.Len() == 0 {
		return true
	}
	groups := make([][]ast.Node, lines.Len())
	cur := 0
	for c := block.FirstChild(); c != nil; c = c.NextSibling() {
		if pos := s.start(c); pos >= 0 {
			for cur < lines.Len()-1 && pos >= lines.At(cur).Stop {
				cur++
			}
		}
		groups[cur] = append(groups[cur], c)
	}
	for i, nodes := range groups {
		seg := lines.At(i)
		if !bytes.HasPrefix(bytes.TrimSpace(seg.Value(s.source)), []byte("|")) {
			continue
		}
		if !s.row(nodes...) {
			return false
		}
	}
	return true
}

// row emits the candidates and skips of one table row.
// It returns false once the consumer stops iterating.
func (s *scan) row(nodes ...ast.Node) bool {
	refLinks := 0
	var loose []*ast.CodeSpan

	var links []*ast.Link
	for _, node := range nodes {
		_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			switch n := n.(type) {
			case *ast.Link:
				links = append(links, n)
				return ast.WalkSkipChildren, nil
			case *ast.CodeSpan:
				if strings.Contains(s.codeText(n), refbook.Separator) {
					loose = append(loose, n)
				}
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		})
	}

	for _, link := range links {
		dest := string(link.Destination)
		spans := codeSpans(link)
		line := s.line(link)

		if !strings.HasPrefix(dest, s.baseURL) {
			if len(spans) > 0 && !s.skip(line, "identifier links outside the reference site: "+dest) {
				return false
			}
			continue
		}
		refLinks++

		if len(spans) == 0 {
			if !s.skip(line, "reference link without identifier: "+dest) {
				return false
			}
			continue
		}

		version := s.version(link)
		for _, span := range spans {
			id := strings.TrimSpace(s.codeText(span))
			if id == "" || strings.ContainsFunc(id, unicode.IsSpace) {
				if !s.skip(s.line(span), "unparsable identifier "+strconv.Quote(id)) {
					return false
				}
				continue
			}
			c := refbook.Candidate{
				Identifier: id,
				URL:        dest,
				Version:    version,
				Location:   refbook.Location{Document: s.document, Line: s.line(span)},
			}
			if !s.yield(c, nil) {
				return false
			}
		}
	}

	if refLinks == 0 && len(loose) > 0 {
		return s.skip(s.line(loose[0]), "identifier without reference link: "+s.codeText(loose[0]))
	}
	return true
}

func (s *scan) skip(line int, reason string) bool {
	return s.yield(refbook.Candidate{}, &refbook.ParseSkip{
		Location: refbook.Location{Document: s.document, Line: line},
		Reason:   reason,
	})
}

// line returns the 1-based source line of the first text inside n.
// Nodes without text report the last line seen.
func (s *scan) line(n ast.Node) int {
	if pos := s.start(n); pos >= 0 {
		s.lastLine = bytes.Count(s.source[:pos], []byte("\n")) + 1 + s.offset
	}
	return s.lastLine
}

// start returns the source offset of the first text inside n, or -1.
func (s *scan) start(n ast.Node) int {
	pos := -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			pos = t.Segment.Start
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return pos
}

// codeText returns the raw text of a code span.
func (s *scan) codeText(span *ast.CodeSpan) string {
	var b strings.Builder
	for c := span.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(s.source))
		}
	}
	return b.String()
}

// version returns the parenthesized tag that follows a link or, failing
// that, the one closing its label, as in [`std::ranges::sort` (C++20)](...).
func (s *scan) version(link *ast.Link) string {
	if v := s.tag(link.NextSibling()); v != "" {
		return v
	}
	var last ast.Node
	for c := link.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.CodeSpan); ok {
			last = c
		}
	}
	if last == nil {
		return ""
	}
	return s.tag(last.NextSibling())
}

// tag matches a version tag against the text run starting at first.
func (s *scan) tag(first ast.Node) string {
	var b strings.Builder
	for n := first; n != nil; n = n.NextSibling() {
		t, ok := n.(*ast.Text)
		if !ok {
			break
		}
		b.Write(t.Segment.Value(s.source))
	}
	m := versionRe.FindStringSubmatch(b.String())
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// codeSpans returns the code spans in a link's text.
func codeSpans(link *ast.Link) []*ast.CodeSpan {
	var spans []*ast.CodeSpan
	_ = ast.Walk(link, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if span, ok := n.(*ast.CodeSpan); ok && entering {
			spans = append(spans, span)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return spans
}
