package refbook_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/refbook"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := refbook.Errorf(refbook.ENOTFOUND, "document %q not found", "std::sort")

	assert.Equal(t, refbook.ENOTFOUND, refbook.ErrorCode(err))
	assert.Equal(t, "document \"std::sort\" not found", refbook.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, refbook.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, refbook.ErrorMessage(nil))
}

func TestErrorCode_DomainErrors(t *testing.T) {
	t.Parallel()

	t.Run("conflict maps to ECONFLICT through wrapping", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("build: %w", &refbook.ConflictError{Identifier: "std::midpoint"})

		assert.Equal(t, refbook.ECONFLICT, refbook.ErrorCode(err))
	})

	t.Run("missing document maps to ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		err := &refbook.MissingDocumentError{Identifier: "std::vector"}

		assert.Equal(t, refbook.ENOTFOUND, refbook.ErrorCode(err))
		assert.Contains(t, refbook.ErrorMessage(err), "std::vector")
	})

	t.Run("missing document lists every identifier", func(t *testing.T) {
		t.Parallel()

		err := &refbook.MissingDocumentError{
			Identifier:  "std::abs",
			Identifiers: []string{"std::abs", "std::sort"},
		}

		assert.Equal(t, "no document stored for 2 reference(s): std::abs, std::sort; run sync first", refbook.ErrorMessage(err))
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		t.Parallel()

		err := errors.New("disk full")

		assert.Equal(t, refbook.EINTERNAL, refbook.ErrorCode(err))
		assert.Equal(t, "disk full", refbook.ErrorMessage(err))
	})
}

func TestConflictError_Error(t *testing.T) {
	t.Parallel()

	err := &refbook.ConflictError{
		Identifier: "std::midpoint",
		Existing: refbook.Reference{
			Identifier: "std::midpoint",
			URL:        "https://en.cppreference.com/w/cpp/numeric/midpoint",
			Locations: []refbook.Location{
				{Document: "a.md", Line: 3},
				{Document: "c.md", Line: 9},
			},
		},
		URL:      "https://en.cppreference.com/w/cpp/algorithm/midpoint",
		Location: refbook.Location{Document: "b.md", Line: 7},
	}

	msg := err.Error()

	assert.Contains(t, msg, "std::midpoint")
	assert.Contains(t, msg, "https://en.cppreference.com/w/cpp/numeric/midpoint at a.md:3, c.md:9")
	assert.Contains(t, msg, "https://en.cppreference.com/w/cpp/algorithm/midpoint at b.md:7")
}

func TestParseSkip_Error(t *testing.T) {
	t.Parallel()

	err := &refbook.ParseSkip{
		Location: refbook.Location{Document: "algorithms.md", Line: 12},
		Reason:   "reference link without identifier",
	}

	assert.Equal(t, "algorithms.md:12: skipped: reference link without identifier", err.Error())
}
