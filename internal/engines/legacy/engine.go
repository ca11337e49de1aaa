// Package legacy is the single-level runner fixtures opt into with
// platform.MarkerLegacy. Each fixture becomes one test running all of its
// examples in order on a single fixture object.
package legacy

import (
	"errors"
	"log/slog"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/discovery"
	"github.com/granito-source/concordion/internal/fixture"
	"github.com/granito-source/concordion/internal/hierarchical"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/specification"
	"github.com/granito-source/concordion/internal/tree"
)

// Title is the display name of the engine root.
const Title = "Concordion legacy runner"

// SegmentClass is the id segment type of fixture tests.
const SegmentClass = "class"

// Engine discovers one test per legacy fixture.
type Engine struct {
	locator  specification.Locator
	factory  fixture.Factory
	executor *hierarchical.Executor
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocator sets the example locator. Default:
// specification.ClassNameLocator.
func WithLocator(l specification.Locator) Option {
	return func(e *Engine) { e.locator = l }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates the engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		locator: specification.ClassNameLocator{},
		factory: fixture.Plain{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.executor = hierarchical.New(hierarchical.WithLogger(e.logger))
	return e
}

// Install registers the engine in a loader.
func Install(opts ...Option) classpath.Installer {
	return func(l *classpath.Loader) {
		platform.RegisterEngine(l, func(*classpath.Loader) platform.Engine {
			return New(opts...)
		})
	}
}

// ID implements platform.Engine.
func (e *Engine) ID() string {
	return platform.EngineIDLegacy
}

// Discover implements platform.Engine. Example names are resolved at
// execution time.
func (e *Engine) Discover(req *platform.DiscoveryRequest, id platform.UniqueID) (platform.Descriptor, error) {
	root := tree.NewRootDescriptor(id, Title)
	eligible := discovery.Eligible(platform.MarkerLegacy)
	for t := range discovery.FixtureStream(req) {
		if eligible(t) {
			root.AddChild(e.newFixtureTest(root.UniqueID(), t))
		}
	}
	return root, nil
}

// Execute implements platform.Engine.
func (e *Engine) Execute(req *platform.ExecutionRequest) error {
	return e.executor.Execute(req)
}

// FixtureTest runs every example of one fixture.
type FixtureTest struct {
	*platform.BaseDescriptor

	fixture *classpath.Type
	engine  *Engine
}

func (e *Engine) newFixtureTest(parent platform.UniqueID, t *classpath.Type) *FixtureTest {
	d := &FixtureTest{fixture: t, engine: e}
	d.BaseDescriptor = platform.NewBaseDescriptor(
		parent.Append(SegmentClass, t.Name()),
		specification.Title(t),
		platform.KindTest,
		d,
	)
	return d
}

// Fixture returns the fixture type.
func (d *FixtureTest) Fixture() *classpath.Type {
	return d.fixture
}

// Prepare creates the fixture object.
func (d *FixtureTest) Prepare(ctx *hierarchical.Context) (*hierarchical.Context, error) {
	obj, err := d.engine.factory.CreateFixtureObject(d.fixture)
	if err != nil {
		return nil, err
	}
	return ctx.WithFixture(obj), nil
}

// Execute runs the examples in order. Every example runs; failures are
// joined.
func (d *FixtureTest) Execute(ctx *hierarchical.Context) error {
	names, err := d.engine.locator.ExampleNames(d.fixture)
	if err != nil {
		return platform.NewDiscoveryError(d.fixture.Name(), err)
	}
	var errs []error
	for _, name := range names {
		if err := specification.RunExample(ctx.Fixture, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
