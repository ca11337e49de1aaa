// Package lifecycle is the tree engine for fixtures prepared by the test
// lifecycle: fixtures carry platform.MarkerLifecycleFixture and get their
// dependencies injected from the loader's container after construction.
package lifecycle

import (
	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/discovery"
	"github.com/granito-source/concordion/internal/fixture"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/runner"
	"github.com/granito-source/concordion/internal/tree"
)

// Title is the display name of the engine root.
const Title = "Concordion with lifecycle injection for JUnit Platform"

// New creates the engine for loader and selects the lifecycle runner.
func New(loader *classpath.Loader, opts ...tree.Option) *tree.Builder {
	runner.Select(loader.Properties(), runner.NameLifecycle)
	return tree.New(platform.EngineIDLifecycle, append([]tree.Option{
		tree.WithTitle(Title),
		tree.WithEligibility(discovery.Eligible(platform.MarkerLifecycleFixture)),
		tree.WithFactory(fixture.Lifecycle{}),
	}, opts...)...)
}

// Install registers the engine in a loader.
func Install(opts ...tree.Option) classpath.Installer {
	return func(l *classpath.Loader) {
		platform.RegisterEngine(l, func(loader *classpath.Loader) platform.Engine {
			return New(loader, opts...)
		})
	}
}
