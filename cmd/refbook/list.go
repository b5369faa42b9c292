package main

import (
	"fmt"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	reg, err := loadRegistry(deps)
	if err != nil {
		return err
	}

	if reg.Len() == 0 {
		fmt.Fprintf(deps.Stdout, "No references found in %s.\n", deps.Config.Content)
		return nil
	}

	for _, ref := range reg.OrderedList() {
		version := ref.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d\n", ref.Identifier, ref.URL, version, len(ref.Locations))
	}

	return nil
}
