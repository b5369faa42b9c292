package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fwojciec/refbook"
)

// loadRegistry extracts candidates from the content directory and builds
// the registry. Skipped rows are logged and counted; a conflict aborts.
func loadRegistry(deps *Dependencies) (*refbook.Registry, error) {
	coll, err := refbook.Collect(deps.Sources, deps.Extractor)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", refbook.ErrorMessage(err))
		return nil, err
	}

	for _, skip := range coll.Skipped {
		deps.Logger.Warn("skipped row",
			"location", skip.Location.String(),
			"reason", skip.Reason,
		)
	}
	if n := len(coll.Skipped); n > 0 {
		fmt.Fprintf(deps.Stderr, "Skipped %d malformed rows (use --verbose for details)\n", n)
	}

	reg, err := refbook.BuildRegistry(slices.Values(coll.Candidates))
	if err != nil {
		var conflict *refbook.ConflictError
		if errors.As(err, &conflict) {
			deps.Logger.Error("conflicting reference",
				"identifier", conflict.Identifier,
				"existing_url", conflict.Existing.URL,
				"url", conflict.URL,
				"location", conflict.Location.String(),
			)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", refbook.ErrorMessage(err))
		return nil, err
	}

	deps.Logger.Debug("catalog built",
		"references", reg.Len(),
		"candidates", len(coll.Candidates),
		"skipped", len(coll.Skipped),
	)
	return reg, nil
}
