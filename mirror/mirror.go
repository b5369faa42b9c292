// Package mirror keeps the document store in step with the reference
// registry. It fetches reference pages concurrently, normalizes them and
// persists the result.
package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/refbook"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Mode selects which references a sync fetches.
type Mode int

const (
	// SkipExisting fetches only references without a stored document.
	SkipExisting Mode = iota
	// OverwriteAll fetches every reference and replaces stored documents.
	OverwriteAll
)

func (m Mode) String() string {
	if m == OverwriteAll {
		return "overwrite"
	}
	return "skip-existing"
}

// DefaultConcurrency is the worker count used when Syncer.Concurrency is unset.
const DefaultConcurrency = 10

// Syncer fetches, normalizes and stores reference documents.
type Syncer struct {
	Fetcher     refbook.Fetcher
	Normalizer  refbook.Normalizer
	Store       refbook.DocumentStore
	RateLimiter refbook.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
	OnRetry     RetryFunc
	Now         func() time.Time

	// RunID names the run. A random UUID is used when empty.
	RunID string
}

// Result holds the outcome of a sync.
type Result struct {
	RunID      string
	Mode       Mode
	StartedAt  time.Time
	FinishedAt time.Time

	// Succeeded lists stored identifiers in catalog order.
	Succeeded []string
	// Failed maps each failed identifier to its error.
	Failed map[string]error
	// Unchanged counts overwritten documents whose content hash did not change.
	Unchanged int
	// Bytes is the total size of the stored documents.
	Bytes int
}

// Run converts the result into a record for a refbook.RunRecorder.
func (r *Result) Run() *refbook.SyncRun {
	run := &refbook.SyncRun{
		ID:         r.RunID,
		Overwrite:  r.Mode == OverwriteAll,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Succeeded:  len(r.Succeeded),
		Unchanged:  r.Unchanged,
		Failures:   make(map[string]string, len(r.Failed)),
	}
	for id, err := range r.Failed {
		run.Failures[id] = err.Error()
	}
	return run
}

// ProgressEvent reports progress during a sync.
type ProgressEvent struct {
	Type       ProgressType
	Completed  int
	Total      int
	Identifier string
	URL        string
	Error      error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting sync progress.
// It is always called from the goroutine that called Sync.
type ProgressFunc func(event ProgressEvent)

// syncResult holds the outcome of processing a single reference.
type syncResult struct {
	position  int
	ref       refbook.Reference
	bytes     int
	unchanged bool
	err       error
}

// Sync brings the store up to date with the registry. A failure for one
// identifier is recorded in the result and never stops the others. The
// returned error is non-nil only when the work set cannot be determined or
// ctx is canceled, in which case the partial result is still returned.
func (s *Syncer) Sync(ctx context.Context, reg *refbook.Registry, mode Mode, progress ProgressFunc) (*Result, error) {
	result := &Result{
		RunID:     s.runID(),
		Mode:      mode,
		StartedAt: s.now(),
		Failed:    make(map[string]error),
	}

	var ids []string
	switch mode {
	case OverwriteAll:
		ids = reg.Identifiers()
	default:
		var err error
		if ids, err = reg.Missing(ctx, s.Store); err != nil {
			return nil, fmt.Errorf("list missing documents: %w", err)
		}
	}

	refs := make([]refbook.Reference, 0, len(ids))
	for _, id := range ids {
		ref, _ := reg.Lookup(id)
		refs = append(refs, ref)
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(refs)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan syncResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, ref := range refs {
			g.Go(func() error {
				resultCh <- s.process(gctx, i, ref, mode)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Each worker result lands in its own slot; completion order only
	// drives progress reporting.
	results := make([]syncResult, total)
	completed := 0
	for res := range resultCh {
		completed++
		results[res.position] = res

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:       ProgressCompleted,
			Completed:  completed,
			Total:      total,
			Identifier: res.ref.Identifier,
			URL:        res.ref.URL,
		}
		if res.err != nil {
			event.Type = ProgressFailed
			event.Error = res.err
		}
		progress(event)
	}

	for _, res := range results {
		if res.err != nil {
			result.Failed[res.ref.Identifier] = res.err
			continue
		}
		result.Succeeded = append(result.Succeeded, res.ref.Identifier)
		result.Bytes += res.bytes
		if res.unchanged {
			result.Unchanged++
		}
	}
	result.FinishedAt = s.now()

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// process fetches, normalizes and stores a single reference.
func (s *Syncer) process(ctx context.Context, position int, ref refbook.Reference, mode Mode) syncResult {
	result := syncResult{position: position, ref: ref}

	if s.RateLimiter != nil {
		host, err := hostOf(ref.URL)
		if err != nil {
			result.err = err
			return result
		}
		if err := s.RateLimiter.Wait(ctx, host); err != nil {
			result.err = err
			return result
		}
	}

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	markup, err := FetchWithRetryDelays(ctx, ref.URL, s.Fetcher.Fetch, s.OnRetry, delays)
	if err != nil {
		result.err = fmt.Errorf("fetch %s: %w", ref.URL, err)
		return result
	}

	content, err := s.Normalizer.Normalize(markup, false)
	if err != nil {
		result.err = fmt.Errorf("normalize %s: %w", ref.URL, err)
		return result
	}
	hash := ComputeHash(content)

	if mode == OverwriteAll {
		if prev, err := s.Store.Load(ctx, ref.Identifier); err == nil && prev.ContentHash == hash {
			result.unchanged = true
		}
	}

	doc := &refbook.Document{
		Identifier:  ref.Identifier,
		SourceURL:   ref.URL,
		Content:     content,
		ContentHash: hash,
		FetchedAt:   s.now(),
	}
	if err := s.Store.Save(ctx, doc); err != nil {
		result.err = fmt.Errorf("save: %w", err)
		return result
	}

	result.bytes = len(content)
	return result
}

func (s *Syncer) runID() string {
	if s.RunID != "" {
		return s.RunID
	}
	return uuid.New().String()
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
