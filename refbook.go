// Package refbook builds a printable reference book from the symbol
// references found in a directory of markdown content files. It extracts
// qualified identifiers and their reference URLs, validates them into an
// immutable, hierarchically ordered registry, mirrors the reference pages
// to local storage and binds them into a single document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, goldmark/, sqlite/).
package refbook
