// Package report records what happened during an execution: an ordered
// trace of listener events, the totals shown to users and canonical
// snapshots of trees and traces for golden comparison.
package report

import (
	"sync"

	"github.com/granito-source/concordion/internal/platform"
)

// Event types.
const (
	EventStarted  = "started"
	EventSkipped  = "skipped"
	EventFinished = "finished"
)

// Event is one listener notification.
type Event struct {
	Seq    int64         `json:"seq"`
	Type   string        `json:"type"`
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Kind   platform.Kind `json:"-"`
	Status string        `json:"status,omitempty"`
	Reason string        `json:"reason,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// Counts totals the test descriptors of a trace. Containers are not
// counted.
type Counts struct {
	Tests      int `json:"tests"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Aborted    int `json:"aborted"`
	Skipped    int `json:"skipped"`
}

// OK reports whether no test failed or aborted.
func (c Counts) OK() bool {
	return c.Failed == 0 && c.Aborted == 0
}

// Trace is an ExecutionListener recording events in order.
//
// Thread-safety: all methods are safe for concurrent use.
type Trace struct {
	clock *Clock

	mu     sync.Mutex
	events []Event
	counts Counts
	// failed tests and containers that failed to prepare
	failures []Event
}

// NewTrace creates a trace stamped by clock; nil means a fresh Clock.
func NewTrace(clock *Clock) *Trace {
	if clock == nil {
		clock = NewClock()
	}
	return &Trace{clock: clock}
}

func (t *Trace) ExecutionStarted(d platform.Descriptor) {
	t.record(Event{Type: EventStarted}, d)
}

func (t *Trace) ExecutionSkipped(d platform.Descriptor, reason string) {
	t.record(Event{Type: EventSkipped, Reason: reason}, d)
}

func (t *Trace) ExecutionFinished(d platform.Descriptor, r platform.Result) {
	e := Event{Type: EventFinished, Status: r.Status.String()}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	t.record(e, d)
}

func (t *Trace) record(e Event, d platform.Descriptor) {
	e.ID = d.UniqueID().String()
	e.Name = d.DisplayName()
	e.Kind = d.Kind()

	t.mu.Lock()
	defer t.mu.Unlock()

	e.Seq = t.clock.Next()
	t.events = append(t.events, e)

	if d.Kind() != platform.KindTest {
		if e.Type == EventFinished && e.Error != "" {
			t.failures = append(t.failures, e)
		}
		return
	}
	switch e.Type {
	case EventSkipped:
		t.counts.Tests++
		t.counts.Skipped++
	case EventFinished:
		t.counts.Tests++
		switch e.Status {
		case platform.StatusSuccessful.String():
			t.counts.Successful++
		case platform.StatusFailed.String():
			t.counts.Failed++
			t.failures = append(t.failures, e)
		default:
			t.counts.Aborted++
			t.failures = append(t.failures, e)
		}
	}
}

// Events returns the recorded events in order.
func (t *Trace) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Event(nil), t.events...)
}

// Counts returns the totals so far.
func (t *Trace) Counts() Counts {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts
}

// Failures returns the finished events carrying an error: failed or
// aborted tests and containers whose preparation failed.
func (t *Trace) Failures() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Event(nil), t.failures...)
}

// Last returns the most recent event.
func (t *Trace) Last() (Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.events) == 0 {
		return Event{}, false
	}
	return t.events[len(t.events)-1], true
}
