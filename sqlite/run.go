package sqlite

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/refbook"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ refbook.RunRecorder = (*RunStore)(nil)

// RunStore keeps sync run history in SQLite.
type RunStore struct {
	db *DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// RecordRun stores a run and its failures in one transaction.
// A run without an ID is assigned a new UUID.
func (s *RunStore) RecordRun(ctx context.Context, run *refbook.SyncRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		return refbook.Errorf(refbook.EINVALID, "invalid run id %q", run.ID)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	overwrite := 0
	if run.Overwrite {
		overwrite = 1
	}
	insertRun := sq.Insert("sync_runs").
		Columns("id", "overwrite", "started_at", "finished_at", "succeeded", "unchanged").
		Values(run.ID, overwrite, formatTime(run.StartedAt), formatTime(run.FinishedAt), run.Succeeded, run.Unchanged)
	if _, err := insertRun.RunWith(tx).ExecContext(ctx); err != nil {
		return err
	}

	if len(run.Failures) > 0 {
		insertFailures := sq.Insert("sync_failures").Columns("run_id", "identifier", "message")
		for id, msg := range run.Failures {
			insertFailures = insertFailures.Values(run.ID, id, msg)
		}
		if _, err := insertFailures.RunWith(tx).ExecContext(ctx); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListRuns returns recorded runs, most recent first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]*refbook.SyncRun, error) {
	q := sq.Select("id", "overwrite", "started_at", "finished_at", "succeeded", "unchanged").
		From("sync_runs").
		OrderBy("started_at DESC", "id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*refbook.SyncRun
	for rows.Next() {
		var run refbook.SyncRun
		var overwrite int
		var startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &overwrite, &startedAt, &finishedAt, &run.Succeeded, &run.Unchanged); err != nil {
			return nil, err
		}
		run.Overwrite = overwrite != 0
		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, run := range runs {
		if run.Failures, err = s.failures(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *RunStore) failures(ctx context.Context, runID string) (map[string]string, error) {
	query, args, err := sq.Select("identifier", "message").
		From("sync_failures").
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	failures := make(map[string]string)
	for rows.Next() {
		var id, msg string
		if err := rows.Scan(&id, &msg); err != nil {
			return nil, err
		}
		failures[id] = msg
	}
	return failures, rows.Err()
}
