package tree

import (
	"fmt"
	"log/slog"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/discovery"
	"github.com/granito-source/concordion/internal/fixture"
	"github.com/granito-source/concordion/internal/hierarchical"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/specification"
)

// DefaultTitle is the display name of engine roots.
const DefaultTitle = "Concordion"

// AdjustFunc maps a candidate into the context fixtures are resolved in.
type AdjustFunc func(candidate *classpath.Type) (*classpath.Type, error)

// Identity is the default AdjustFunc.
func Identity(candidate *classpath.Type) (*classpath.Type, error) {
	return candidate, nil
}

// Builder discovers and executes specification trees. It implements
// platform.Engine.
type Builder struct {
	id           string
	title        string
	eligible     discovery.Predicate
	factory      fixture.Factory
	adjust       AdjustFunc
	locator      specification.Locator
	prerequisite func() error
	cache        *SpecCache
	executor     *hierarchical.Executor
	logger       *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithTitle sets the display name of roots. Default: DefaultTitle.
func WithTitle(title string) Option {
	return func(b *Builder) { b.title = title }
}

// WithEligibility sets the fixture predicate, applied after adjustment.
// Default: discovery.Eligible(platform.MarkerFixture).
func WithEligibility(p discovery.Predicate) Option {
	return func(b *Builder) { b.eligible = p }
}

// WithFactory sets the fixture-object strategy. Default: fixture.Plain.
func WithFactory(f fixture.Factory) Option {
	return func(b *Builder) { b.factory = f }
}

// WithAdjust sets the context adjustment. Default: Identity.
func WithAdjust(fn AdjustFunc) Option {
	return func(b *Builder) { b.adjust = fn }
}

// WithLocator sets the example locator. Default:
// specification.ClassNameLocator.
func WithLocator(l specification.Locator) Option {
	return func(b *Builder) { b.locator = l }
}

// WithPrerequisite sets a step run before every append.
func WithPrerequisite(fn func() error) Option {
	return func(b *Builder) { b.prerequisite = fn }
}

// WithCache sets the specification cache. Default: a new cache owned by
// the Builder.
func WithCache(c *SpecCache) Option {
	return func(b *Builder) { b.cache = c }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a Builder identified by id.
func New(id string, opts ...Option) *Builder {
	b := &Builder{
		id:       id,
		title:    DefaultTitle,
		eligible: discovery.Eligible(platform.MarkerFixture),
		factory:  fixture.Plain{},
		adjust:   Identity,
		locator:  specification.ClassNameLocator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.cache == nil {
		b.cache = NewSpecCache()
	}
	b.executor = hierarchical.New(hierarchical.WithLogger(b.logger))
	return b
}

// ID implements platform.Engine.
func (b *Builder) ID() string {
	return b.id
}

// Cache returns the Builder's specification cache.
func (b *Builder) Cache() *SpecCache {
	return b.cache
}

// Discover creates a new root and appends every eligible fixture of the
// request to it. The first append failure aborts the call.
func (b *Builder) Discover(req *platform.DiscoveryRequest, id platform.UniqueID) (platform.Descriptor, error) {
	root := NewRootDescriptor(id, b.title)

	for candidate := range discovery.FixtureStream(req) {
		fixtureType, err := b.adjust(candidate)
		if err != nil {
			return nil, fmt.Errorf("adjust %s: %w", candidate.Name(), err)
		}
		if !b.eligible(fixtureType) {
			b.logger.Debug("candidate not eligible", "engine", b.id, "type", fixtureType.Name())
			continue
		}
		if err := b.Append(root, fixtureType); err != nil {
			return nil, err
		}
	}

	b.logger.Debug("discovery complete",
		"engine", b.id,
		"root", id.String(),
		"specifications", len(root.Children()),
	)
	return root, nil
}

// Append attaches the specification of fixture to parent and rebuilds its
// examples from the locator. A locator failure is a discovery error naming
// the fixture.
func (b *Builder) Append(parent platform.Descriptor, fixtureType *classpath.Type) error {
	if b.prerequisite != nil {
		if err := b.prerequisite(); err != nil {
			return err
		}
	}

	spec := b.AppendSpec(parent, fixtureType)
	names, err := b.locator.ExampleNames(fixtureType)
	if err != nil {
		return platform.NewDiscoveryError(fixtureType.Name(), err)
	}
	spec.ReplaceExamples(names)
	return nil
}

// AppendSpec returns the cached specification of fixture, creating it on a
// miss, attached under parent.
func (b *Builder) AppendSpec(parent platform.Descriptor, fixtureType *classpath.Type) *SpecificationDescriptor {
	return b.cache.Attach(parent, fixtureType, func() *SpecificationDescriptor {
		return NewSpecificationDescriptor(parent.UniqueID(), fixtureType, b.factory)
	})
}

// Execute runs a tree returned by Discover.
func (b *Builder) Execute(req *platform.ExecutionRequest) error {
	return b.executor.Execute(req)
}
