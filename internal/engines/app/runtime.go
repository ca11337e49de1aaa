package app

import (
	"fmt"
	"log/slog"

	"github.com/granito-source/concordion/internal/bootstrap"
	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/discovery"
	"github.com/granito-source/concordion/internal/fixture"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/runner"
	"github.com/granito-source/concordion/internal/tree"
)

// RuntimeEngine discovers app fixtures in the runtime loader and resolves
// fixture objects from the runtime's container.
type RuntimeEngine struct {
	*tree.Builder

	loader *classpath.Loader
	handle bootstrap.Handle
}

// NewRuntimeEngine creates the engine for a runtime loader and selects the
// app runner. A nil handle makes every discovery of an app fixture fail.
func NewRuntimeEngine(loader *classpath.Loader, handle bootstrap.Handle, logger *slog.Logger, opts ...tree.Option) *RuntimeEngine {
	runner.Select(loader.Properties(), runner.NameApp)

	e := &RuntimeEngine{loader: loader, handle: handle}
	e.Builder = tree.New(platform.EngineIDApp, append([]tree.Option{
		tree.WithTitle(Title),
		tree.WithEligibility(discovery.Eligible(platform.MarkerAppFixture)),
		tree.WithFactory(fixture.Container{}),
		tree.WithAdjust(e.adjust),
		tree.WithPrerequisite(e.ensureRunning),
		tree.WithLogger(logger),
	}, opts...)...)
	return e
}

// ID panics: the engine must be reached through Engine.
func (e *RuntimeEngine) ID() string {
	panic(platform.NewDirectUseError("this engine cannot be used directly"))
}

// Handle returns the runtime handle.
func (e *RuntimeEngine) Handle() bootstrap.Handle {
	return e.handle
}

// adjust resolves candidate in the runtime loader.
func (e *RuntimeEngine) adjust(candidate *classpath.Type) (*classpath.Type, error) {
	if candidate.Loader() == e.loader {
		return candidate, nil
	}
	t, err := e.loader.Load(candidate.Name())
	if err != nil {
		return nil, fmt.Errorf("resolve in runtime: %w", err)
	}
	return t, nil
}

func (e *RuntimeEngine) ensureRunning() error {
	if e.handle == nil {
		return platform.NewBootstrapError("no startup context", nil)
	}
	return e.handle.EnsureRunning()
}
