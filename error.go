package refbook

import (
	"errors"
	"fmt"
	"strings"
)

// Application error codes.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("refbook error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Conflict and missing-document errors map to ECONFLICT and ENOTFOUND.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	var conflict *ConflictError
	var missing *MissingDocumentError
	switch {
	case errors.As(err, &e):
		return e.Code
	case errors.As(err, &conflict):
		return ECONFLICT
	case errors.As(err, &missing):
		return ENOTFOUND
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Other errors return their own text so operators still see the cause.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ParseSkip reports a malformed candidate row. It is never fatal: extractors
// yield it in place of a candidate so callers can count and log it.
type ParseSkip struct {
	Location Location
	Reason   string
}

func (e *ParseSkip) Error() string {
	return fmt.Sprintf("%s: skipped: %s", e.Location, e.Reason)
}

// ConflictError is returned when an identifier is found with two distinct URLs.
// Existing holds the reference as registered so far, including every location
// where the first URL was seen.
type ConflictError struct {
	Identifier string
	Existing   Reference
	URL        string
	Location   Location
}

func (e *ConflictError) Error() string {
	locs := make([]string, 0, len(e.Existing.Locations))
	for _, loc := range e.Existing.Locations {
		locs = append(locs, loc.String())
	}
	return fmt.Sprintf("conflicting URLs for %s: %s at %s; %s at %s",
		e.Identifier,
		e.Existing.URL, strings.Join(locs, ", "),
		e.URL, e.Location,
	)
}

// MissingDocumentError is returned when registry identifiers have no
// persisted document at assembly time. Identifier is the first entry of
// Identifiers.
type MissingDocumentError struct {
	Identifier  string
	Identifiers []string
}

func (e *MissingDocumentError) Error() string {
	ids := e.Identifiers
	if len(ids) == 0 {
		ids = []string{e.Identifier}
	}
	return fmt.Sprintf("no document stored for %d reference(s): %s; run sync first",
		len(ids), strings.Join(ids, ", "))
}
