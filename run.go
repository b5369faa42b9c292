package refbook

import (
	"context"
	"time"
)

// SyncRun summarizes one sync of the registry against the document store.
type SyncRun struct {
	ID         string
	Overwrite  bool
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Unchanged  int

	// Failures maps identifier to the failure message.
	Failures map[string]string
}

// Failed returns the number of identifiers that failed.
func (r *SyncRun) Failed() int {
	return len(r.Failures)
}

// RunRecorder keeps a history of sync runs.
type RunRecorder interface {
	// RecordRun stores a finished run.
	RecordRun(ctx context.Context, run *SyncRun) error

	// ListRuns returns the most recent runs first.
	// A limit of zero returns every run.
	ListRuns(ctx context.Context, limit int) ([]*SyncRun, error)
}
