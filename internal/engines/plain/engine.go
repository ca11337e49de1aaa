// Package plain is the default tree engine: fixtures follow the naming
// convention, carry platform.MarkerFixture and are constructed directly.
package plain

import (
	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/discovery"
	"github.com/granito-source/concordion/internal/fixture"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/tree"
)

// Title is the display name of the engine root.
const Title = "Concordion for JUnit Platform"

// New creates the engine for loader. opts are applied after the defaults.
func New(_ *classpath.Loader, opts ...tree.Option) *tree.Builder {
	return tree.New(platform.EngineIDDefault, append([]tree.Option{
		tree.WithTitle(Title),
		tree.WithEligibility(discovery.Eligible(platform.MarkerFixture)),
		tree.WithFactory(fixture.Plain{}),
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
