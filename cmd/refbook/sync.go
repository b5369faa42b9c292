package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/mirror"
)

// Run executes the sync command.
func (c *SyncCmd) Run(deps *Dependencies) error {
	reg, err := loadRegistry(deps)
	if err != nil {
		return err
	}

	mode := mirror.SkipExisting
	if c.Overwrite {
		mode = mirror.OverwriteAll
	}

	progress := func(event mirror.ProgressEvent) {
		switch event.Type {
		case mirror.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Syncing %d of %d references (%s)\n", event.Total, reg.Len(), mode)
		case mirror.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %v\n", event.Identifier, event.Error)
		case mirror.ProgressCompleted:
			deps.Logger.Debug("synced",
				"identifier", event.Identifier,
				"url", mirror.TruncateURL(event.URL, 80),
				"completed", event.Completed,
				"total", event.Total,
			)
		case mirror.ProgressFinished:
			// Summary printed after sync completes
		}
	}

	result, err := deps.Syncer.Sync(deps.Ctx, reg, mode, progress)
	if result == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", refbook.ErrorMessage(err))
		return err
	}

	for _, id := range slices.Sorted(maps.Keys(result.Failed)) {
		deps.Logger.Error("sync failed", "identifier", id, "err", result.Failed[id])
	}

	if deps.Runs != nil {
		if rerr := deps.Runs.RecordRun(deps.Ctx, result.Run()); rerr != nil {
			deps.Logger.Error("record run", "err", rerr)
			fmt.Fprintf(deps.Stderr, "warning: run history not recorded: %s\n", refbook.ErrorMessage(rerr))
		}
	}

	fmt.Fprintf(deps.Stdout, "Stored %d pages (%s), %d unchanged, %d failed\n",
		len(result.Succeeded), mirror.FormatBytes(result.Bytes), result.Unchanged, len(result.Failed))

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: sync interrupted: %v\n", err)
		return err
	}
	return nil
}
