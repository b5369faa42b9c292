package book

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// linkAttrs lists the attributes whose relative URLs are made absolute.
var linkAttrs = []string{"href", "src"}

// absolutize rewrites relative href and src attributes against base so
// links and images keep working once the page is printed out of context.
// Fragment-only links and non-HTTP schemes are left alone.
func absolutize(doc *goquery.Document, base *url.URL) {
	for _, attr := range linkAttrs {
		doc.Find("[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
			val, _ := sel.Attr(attr)
			if resolved, ok := resolveURL(base, val); ok {
				sel.SetAttr(attr, resolved)
			}
		})
	}
}

// resolveURL resolves a relative URL against a base URL.
// It reports false when the value should be kept as it is.
func resolveURL(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil || ref.IsAbs() {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
