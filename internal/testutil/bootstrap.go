package testutil

import (
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/granito-source/concordion/internal/bootstrap"
	"github.com/granito-source/concordion/internal/classpath"
)

// DiscardLogger returns a logger dropping every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CountingBootstrapper counts Bootstrap calls before delegating. Delay
// widens the window in which concurrent callers would race.
type CountingBootstrapper struct {
	Inner bootstrap.Bootstrapper
	Delay time.Duration

	calls atomic.Int32
}

// Bootstrap implements bootstrap.Bootstrapper.
func (b *CountingBootstrapper) Bootstrap(fixture *classpath.Type) (bootstrap.StartupAction, error) {
	b.calls.Add(1)
	time.Sleep(b.Delay)
	return b.Inner.Bootstrap(fixture)
}

// Calls returns the number of Bootstrap calls.
func (b *CountingBootstrapper) Calls() int {
	return int(b.calls.Load())
}
