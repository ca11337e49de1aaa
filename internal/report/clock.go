package report

import "sync/atomic"

// Clock stamps trace events with strictly increasing sequence numbers.
// Wall time is never recorded, so two runs of the same tree produce the
// same trace.
//
// Thread-safety: safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next advances the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}
