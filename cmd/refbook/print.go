package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/book"
)

// Run executes the print command.
func (c *PrintCmd) Run(deps *Dependencies) error {
	reg, err := loadRegistry(deps)
	if err != nil {
		return err
	}

	out, err := deps.Binder.Assemble(deps.Ctx, reg, book.Options{Flatten: !c.Colored})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", refbook.ErrorMessage(err))
		if refbook.ErrorCode(err) == refbook.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: run 'refbook sync' to fetch missing pages")
		}
		return err
	}

	if c.Format == "markdown" {
		if out, err = deps.Converter.Convert(out); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", refbook.ErrorMessage(err))
			return err
		}
	}

	if c.Output == "" {
		_, err := fmt.Fprint(deps.Stdout, out)
		return err
	}

	if err := os.WriteFile(c.Output, []byte(out), 0o644); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	deps.Logger.Info("wrote book", "path", c.Output, "references", reg.Len(), "format", c.Format)
	fmt.Fprintf(deps.Stdout, "Wrote %d references to %s\n", reg.Len(), c.Output)
	return nil
}
