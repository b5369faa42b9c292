package main

import (
	"fmt"

	"github.com/fwojciec/refbook"
)

// Run executes the missing command.
func (c *MissingCmd) Run(deps *Dependencies) error {
	reg, err := loadRegistry(deps)
	if err != nil {
		return err
	}

	missing, err := reg.Missing(deps.Ctx, deps.Store)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", refbook.ErrorMessage(err))
		return err
	}

	for _, id := range missing {
		fmt.Fprintln(deps.Stdout, id)
	}
	return nil
}
