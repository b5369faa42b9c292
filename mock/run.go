package mock

import (
	"context"

	"github.com/fwojciec/refbook"
)

var _ refbook.RunRecorder = (*RunRecorder)(nil)

// RunRecorder is a mock implementation of refbook.RunRecorder.
type RunRecorder struct {
	RecordRunFn func(ctx context.Context, run *refbook.SyncRun) error
	ListRunsFn  func(ctx context.Context, limit int) ([]*refbook.SyncRun, error)
}

func (r *RunRecorder) RecordRun(ctx context.Context, run *refbook.SyncRun) error {
	return r.RecordRunFn(ctx, run)
}

func (r *RunRecorder) ListRuns(ctx context.Context, limit int) ([]*refbook.SyncRun, error) {
	return r.ListRunsFn(ctx, limit)
}
