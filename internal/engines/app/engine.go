package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/granito-source/concordion/internal/bootstrap"
	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/discovery"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/tree"
)

// Title is the display name of the engine root.
const Title = "Concordion with application runtime for JUnit Platform"

// Engine is the delegation facade of the app engine.
//
// Thread-safety: all methods are safe for concurrent use. Resolution is a
// single critical section; concurrent discoveries block until the first
// one has bootstrapped the runtime and all observe the same delegate.
type Engine struct {
	loader       *classpath.Loader
	bootstrapper bootstrap.Bootstrapper
	coordOpts    []bootstrap.CoordinatorOption
	treeOpts     []tree.Option
	logger       *slog.Logger

	mu          sync.Mutex
	handle      bootstrap.Handle
	coordinator *bootstrap.Coordinator
	delegate    platform.Engine
	err         error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCoordinatorOptions configures the coordinator created at bootstrap.
func WithCoordinatorOptions(opts ...bootstrap.CoordinatorOption) Option {
	return func(e *Engine) { e.coordOpts = append(e.coordOpts, opts...) }
}

// WithTreeOptions configures the RuntimeEngine created in a runtime
// loader.
func WithTreeOptions(opts ...tree.Option) Option {
	return func(e *Engine) { e.treeOpts = append(e.treeOpts, opts...) }
}

// New creates the facade for loader. bootstrapper is only used when the
// loader is not a runtime loader.
func New(loader *classpath.Loader, bootstrapper bootstrap.Bootstrapper, opts ...Option) *Engine {
	e := &Engine{loader: loader, bootstrapper: bootstrapper, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Install registers the facade in a loader.
func Install(bootstrapper bootstrap.Bootstrapper, opts ...Option) classpath.Installer {
	return func(l *classpath.Loader) {
		platform.RegisterEngine(l, func(loader *classpath.Loader) platform.Engine {
			return New(loader, bootstrapper, opts...)
		})
	}
}

// ID implements platform.Engine.
func (e *Engine) ID() string {
	return platform.EngineIDApp
}

// SetHandle implements bootstrap.HandleAware.
func (e *Engine) SetHandle(h bootstrap.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handle = h
}

// Delegate returns the resolved engine, nil while unresolved.
func (e *Engine) Delegate() platform.Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.delegate
}

// Coordinator returns the coordinator of the runtime this facade
// bootstrapped, nil when it did not bootstrap one.
func (e *Engine) Coordinator() *bootstrap.Coordinator {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coordinator
}

// Discover implements platform.Engine. Without any app fixture selected
// and outside a runtime it returns an empty root.
func (e *Engine) Discover(req *platform.DiscoveryRequest, id platform.UniqueID) (platform.Descriptor, error) {
	delegate, err := e.resolve(req)
	if err != nil {
		return nil, err
	}
	if delegate == nil {
		return tree.NewRootDescriptor(id, Title), nil
	}
	return delegate.Discover(req, id)
}

// Execute implements platform.Engine. It is a no-op while unresolved.
func (e *Engine) Execute(req *platform.ExecutionRequest) error {
	delegate := e.Delegate()
	if delegate == nil {
		return nil
	}
	return delegate.Execute(req)
}

func (e *Engine) resolve(req *platform.DiscoveryRequest) (platform.Engine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.delegate != nil || e.err != nil {
		return e.delegate, e.err
	}

	if e.loader.HasMarker(platform.MarkerRuntime) {
		handle := e.handle
		if handle == nil {
			handle, _ = bootstrap.LookupHandle(e.loader)
		}
		e.delegate = NewRuntimeEngine(e.loader, handle, e.logger, e.treeOpts...)
		e.logger.Debug("runtime engine created in place", "loader", e.loader.Name())
		return e.delegate, nil
	}

	fixture, ok := discovery.FirstMatching(req, discovery.HasMarker(platform.MarkerAppFixture))
	if !ok {
		return nil, nil
	}

	e.delegate, e.err = e.bootstrap(fixture)
	return e.delegate, e.err
}

func (e *Engine) bootstrap(fixture *classpath.Type) (platform.Engine, error) {
	if e.bootstrapper == nil {
		return nil, platform.NewBootstrapError("no startup context", nil)
	}

	e.logger.Info("bootstrapping application runtime", "fixture", fixture.Name())
	action, err := e.bootstrapper.Bootstrap(fixture)
	if err != nil {
		return nil, platform.NewBootstrapError("unable to bootstrap runtime", err)
	}

	coordinator := bootstrap.NewCoordinator(action,
		append([]bootstrap.CoordinatorOption{bootstrap.WithLogger(e.logger)}, e.coordOpts...)...)
	e.coordinator = coordinator
	if err := coordinator.EnsureRunning(); err != nil {
		return nil, err
	}

	delegate, err := findEngine(action.Loader(), platform.EngineIDApp)
	if err != nil {
		return nil, err
	}
	if aware, ok := delegate.(bootstrap.HandleAware); ok {
		aware.SetHandle(coordinator)
	}
	e.logger.Info("engine resolved in runtime",
		"engine", platform.EngineIDApp,
		"loader", action.Loader().Name(),
		"port", coordinator.Port(),
	)
	return delegate, nil
}

// findEngine returns the engine registered in loader under id. Engines
// whose ID panics are skipped.
func findEngine(loader *classpath.Loader, id string) (platform.Engine, error) {
	engines, err := platform.LoadEngines(loader)
	if err != nil {
		return nil, platform.NewBootstrapError("unable to load engines", err)
	}
	for _, candidate := range engines {
		if engineID(candidate) == id {
			return candidate, nil
		}
	}
	return nil, platform.NewBootstrapError(fmt.Sprintf("no implementation for identifier %s", id), nil)
}

func engineID(e platform.Engine) (id string) {
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	return e.ID()
}
