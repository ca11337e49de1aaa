// Package launcher drives engines the way a test platform would: it loads
// the engines registered in a loader, asks each one to discover its tree
// and executes every tree with a shared listener.
package launcher

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/platform"
)

// Launcher runs the engines of one loader.
type Launcher struct {
	loader *classpath.Loader
	ids    []string
	logger *slog.Logger
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithEngines restricts the launcher to the given engine ids. Default:
// every registered engine.
func WithEngines(ids ...string) Option {
	return func(l *Launcher) { l.ids = append(l.ids, ids...) }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a launcher for loader.
func New(loader *classpath.Loader, opts ...Option) *Launcher {
	l := &Launcher{loader: loader, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Engines returns the selected engines in registration order. Asking for
// an id no engine carries is an error.
func (l *Launcher) Engines() ([]platform.Engine, error) {
	all, err := platform.LoadEngines(l.loader)
	if err != nil {
		return nil, err
	}
	if len(l.ids) == 0 {
		return all, nil
	}

	var selected []platform.Engine
	found := make(map[string]bool)
	for _, e := range all {
		if slices.Contains(l.ids, e.ID()) {
			selected = append(selected, e)
			found[e.ID()] = true
		}
	}
	for _, id := range l.ids {
		if !found[id] {
			return nil, fmt.Errorf("unknown engine %q", id)
		}
	}
	return selected, nil
}

// Plan is the outcome of discovery: one root per engine.
type Plan struct {
	Engines []platform.Engine
	Roots   []platform.Descriptor
}

// Tests counts the test descriptors of every root.
func (p *Plan) Tests() int {
	n := 0
	for _, root := range p.Roots {
		platform.Walk(root, func(d platform.Descriptor) {
			if d.Kind() == platform.KindTest {
				n++
			}
		})
	}
	return n
}

// Discover builds the plan for req. The first failing engine stops
// discovery.
func (l *Launcher) Discover(req *platform.DiscoveryRequest) (*Plan, error) {
	engines, err := l.Engines()
	if err != nil {
		return nil, err
	}

	plan := &Plan{}
	for _, e := range engines {
		id := e.ID()
		root, err := e.Discover(req, platform.ForEngine(id))
		if err != nil {
			return nil, fmt.Errorf("discover with %s: %w", id, err)
		}
		l.logger.Debug("engine discovered", "engine", id, "children", len(root.Children()))
		plan.Engines = append(plan.Engines, e)
		plan.Roots = append(plan.Roots, root)
	}
	return plan, nil
}

// Execute runs every root of plan, even empty ones, reporting to
// listener.
func (l *Launcher) Execute(plan *Plan, listener platform.ExecutionListener) error {
	if listener == nil {
		listener = platform.NopListener{}
	}
	listener = platform.NewSyncListener(listener)
	for i, e := range plan.Engines {
		req := platform.NewExecutionRequest(plan.Roots[i], listener, l.loader.Properties())
		if err := e.Execute(req); err != nil {
			return fmt.Errorf("execute with %s: %w", e.ID(), err)
		}
	}
	return nil
}

// Run discovers and executes in one go.
func (l *Launcher) Run(req *platform.DiscoveryRequest, listener platform.ExecutionListener) (*Plan, error) {
	plan, err := l.Discover(req)
	if err != nil {
		return nil, err
	}
	return plan, l.Execute(plan, listener)
}
