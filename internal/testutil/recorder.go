package testutil

import (
	"fmt"
	"sync"

	"github.com/granito-source/concordion/internal/platform"
)

// Recorder is an ExecutionListener remembering every event.
//
// Thread-safety: all methods are safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	events  []string
	results map[string]platform.Result
	skipped []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{results: make(map[string]platform.Result)}
}

func (r *Recorder) ExecutionStarted(d platform.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "started "+d.UniqueID().String())
}

func (r *Recorder) ExecutionSkipped(d platform.Descriptor, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("skipped %s: %s", d.UniqueID(), reason))
	r.skipped = append(r.skipped, d.UniqueID().String())
}

func (r *Recorder) ExecutionFinished(d platform.Descriptor, res platform.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("finished %s %s", d.UniqueID(), res.Status))
	r.results[d.UniqueID().String()] = res
}

// Events returns the events in order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Status returns the status the descriptor finished with, 0 if it did not.
func (r *Recorder) Status(id string) platform.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[id].Status
}

// Err returns the error the descriptor finished with.
func (r *Recorder) Err(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[id].Err
}

// Skipped returns the ids of skipped descriptors in order.
func (r *Recorder) Skipped() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.skipped...)
}
