package platform

import "sync"

// Status is the outcome of executing a descriptor.
type Status int

const (
	StatusSuccessful Status = iota + 1
	StatusFailed
	StatusAborted
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusSuccessful:
		return "successful"
	case StatusFailed:
		return "failed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result is reported when a descriptor finishes.
type Result struct {
	Status Status
	Err    error
}

// Successful is the Result of a descriptor that completed normally.
func Successful() Result { return Result{Status: StatusSuccessful} }

// Failed is the Result of a descriptor whose execution returned err.
func Failed(err error) Result { return Result{Status: StatusFailed, Err: err} }

// Aborted is the Result of a descriptor whose execution panicked.
func Aborted(err error) Result { return Result{Status: StatusAborted, Err: err} }

// ExecutionListener receives execution events. Implementations must be
// safe for concurrent use.
type ExecutionListener interface {
	ExecutionStarted(d Descriptor)
	ExecutionSkipped(d Descriptor, reason string)
	ExecutionFinished(d Descriptor, r Result)
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) ExecutionStarted(Descriptor)         {}
func (NopListener) ExecutionSkipped(Descriptor, string) {}
func (NopListener) ExecutionFinished(Descriptor, Result) {}

// MultiListener fans events out to several listeners in order.
type MultiListener []ExecutionListener

func (m MultiListener) ExecutionStarted(d Descriptor) {
	for _, l := range m {
		l.ExecutionStarted(d)
	}
}

func (m MultiListener) ExecutionSkipped(d Descriptor, reason string) {
	for _, l := range m {
		l.ExecutionSkipped(d, reason)
	}
}

func (m MultiListener) ExecutionFinished(d Descriptor, r Result) {
	for _, l := range m {
		l.ExecutionFinished(d, r)
	}
}

// SyncListener serializes calls into a listener that is not itself safe
// for concurrent use.
type SyncListener struct {
	mu    sync.Mutex
	inner ExecutionListener
}

// NewSyncListener wraps inner.
func NewSyncListener(inner ExecutionListener) *SyncListener {
	return &SyncListener{inner: inner}
}

func (s *SyncListener) ExecutionStarted(d Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.ExecutionStarted(d)
}

func (s *SyncListener) ExecutionSkipped(d Descriptor, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.ExecutionSkipped(d, reason)
}

func (s *SyncListener) ExecutionFinished(d Descriptor, r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.ExecutionFinished(d, r)
}
