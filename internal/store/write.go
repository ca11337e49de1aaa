package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/report"
)

// Run status values.
const (
	RunRunning = "running"
	RunPassed  = "passed"
	RunFailed  = "failed"
)

// Recorder is an ExecutionListener writing every event of one run. The
// first write error stops recording and is returned by Finish.
//
// Thread-safety: safe for concurrent use.
type Recorder struct {
	store *Store
	ctx   context.Context
	runID string

	mu    sync.Mutex
	trace *report.Trace
	err   error
}

// BeginRun creates a run row and returns its recorder. A nil gen means
// UUIDv7Generator.
func (s *Store) BeginRun(ctx context.Context, label string, gen IDGenerator) (*Recorder, error) {
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	id := gen.Generate()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, label, status) VALUES (?, ?, ?)`, id, label, RunRunning); err != nil {
		return nil, fmt.Errorf("insert run %s: %w", id, err)
	}
	return &Recorder{store: s, ctx: ctx, runID: id, trace: report.NewTrace(nil)}, nil
}

// RunID returns the id of the run being recorded.
func (r *Recorder) RunID() string {
	return r.runID
}

// Trace returns the in-memory trace of the run.
func (r *Recorder) Trace() *report.Trace {
	return r.trace
}

func (r *Recorder) ExecutionStarted(d platform.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace.ExecutionStarted(d)
	r.persistLast()
}

func (r *Recorder) ExecutionSkipped(d platform.Descriptor, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace.ExecutionSkipped(d, reason)
	r.persistLast()
}

func (r *Recorder) ExecutionFinished(d platform.Descriptor, res platform.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace.ExecutionFinished(d, res)
	r.persistLast()
}

func (r *Recorder) persistLast() {
	if r.err != nil {
		return
	}
	e, ok := r.trace.Last()
	if !ok {
		return
	}
	_, err := r.store.db.ExecContext(r.ctx, `
		INSERT INTO events (run_id, seq, type, descriptor_id, display_name, kind, status, reason, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.runID, e.Seq, e.Type, e.ID, e.Name, e.Kind.String(), e.Status, e.Reason, e.Error)
	if err != nil {
		r.err = fmt.Errorf("insert event %d of run %s: %w", e.Seq, r.runID, err)
	}
}

// Finish stores the totals and final status of the run.
func (r *Recorder) Finish() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}

	c := r.trace.Counts()
	status := RunPassed
	if !c.OK() {
		status = RunFailed
	}
	_, err := r.store.db.ExecContext(r.ctx, `
		UPDATE runs SET status = ?, tests = ?, successful = ?, failed = ?, aborted = ?, skipped = ?
		WHERE id = ?
	`, status, c.Tests, c.Successful, c.Failed, c.Aborted, c.Skipped, r.runID)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", r.runID, err)
	}
	return nil
}
