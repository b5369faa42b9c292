package refbook

import (
	"iter"
	"strconv"
)

// Location identifies the document line a candidate was found on.
type Location struct {
	Document string `json:"document"`
	Line     int    `json:"line"`
}

// String returns the location as "document:line".
func (l Location) String() string {
	return l.Document + ":" + strconv.Itoa(l.Line)
}

// Candidate is an unvalidated reference extracted from one document location.
type Candidate struct {
	Identifier string
	URL        string
	Version    string // optional, e.g. "C++20"
	Location   Location
}

// Reference is a validated catalog entry. Identity is the identifier.
type Reference struct {
	Identifier string     `json:"identifier"`
	URL        string     `json:"url"`
	Version    string     `json:"version,omitempty"`
	Locations  []Location `json:"locations"`
}

// clone returns a copy that shares no slices with r.
func (r Reference) clone() Reference {
	r.Locations = append([]Location(nil), r.Locations...)
	return r
}

// Extractor scans one structured text document for reference candidates.
type Extractor interface {
	// Extract returns a lazy sequence over the candidates in source, in
	// document order. Malformed rows are yielded as a *ParseSkip error with
	// a zero Candidate; any other error ends the sequence.
	// Calling Extract again re-scans the document from the start.
	Extract(document string, source []byte) iter.Seq2[Candidate, error]
}
