package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/mirror"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if deps.Runs == nil {
		err := refbook.Errorf(refbook.EINVALID, "run history requires the %s store driver", DriverSQLite)
		fmt.Fprintf(deps.Stderr, "error: %s\n", refbook.ErrorMessage(err))
		return err
	}

	runs, err := deps.Runs.ListRuns(deps.Ctx, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", refbook.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No sync runs recorded. Use 'refbook sync' to start one.")
		return nil
	}

	for _, run := range runs {
		mode := mirror.SkipExisting
		if run.Overwrite {
			mode = mirror.OverwriteAll
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  stored=%d unchanged=%d failed=%d\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			mode,
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
			run.Succeeded, run.Unchanged, run.Failed(),
		)
	}
	return nil
}
