// Package runner decides which engine runs a fixture.
//
// The runner is chosen by name through the Property configuration key,
// which every engine sets on its loader when constructed. Each runner
// maps fixtures to its own engine identifier, except fixtures carrying
// platform.MarkerLegacy, which always go to the legacy engine.
package runner

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/platform"
)

// Property names the runner used to resolve engine identifiers.
const Property = "concordion.runner.concordion"

// Runner names.
const (
	NameDefault   = "default"
	NameLifecycle = "lifecycle"
	NameApp       = "app"
)

// ErrUnknownRunner is returned when no runner has the requested name.
var ErrUnknownRunner = errors.New("unknown runner")

// Runner resolves the engine identifier for a fixture.
type Runner interface {
	Name() string
	ResolveEngineID(fixture *classpath.Type) string
}

type engineRunner struct {
	name     string
	engineID string
}

// New creates a runner sending fixtures to engineID, or to the legacy
// engine when they ask for it.
func New(name, engineID string) Runner {
	return engineRunner{name: name, engineID: engineID}
}

func (r engineRunner) Name() string {
	return r.name
}

func (r engineRunner) ResolveEngineID(fixture *classpath.Type) string {
	if fixture.HasMarker(platform.MarkerLegacy) {
		return platform.EngineIDLegacy
	}
	return r.engineID
}

// Registry holds runners by name.
//
// Thread-safety: all methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

// NewRegistry creates a registry holding runners.
func NewRegistry(runners ...Runner) *Registry {
	r := &Registry{runners: make(map[string]Runner)}
	for _, rn := range runners {
		r.Register(rn)
	}
	return r
}

// DefaultRegistry holds the runners of the built-in engines.
func DefaultRegistry() *Registry {
	return NewRegistry(
		New(NameDefault, platform.EngineIDDefault),
		New(NameLifecycle, platform.EngineIDLifecycle),
		New(NameApp, platform.EngineIDApp),
	)
}

// Register adds or replaces a runner.
func (r *Registry) Register(rn Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[rn.Name()] = rn
}

// Lookup returns the runner called name.
func (r *Registry) Lookup(name string) (Runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rn, ok := r.runners[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRunner, name)
	}
	return rn, nil
}

// Names returns the registered runner names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the engine identifier for fixture using the runner
// named by Property, NameDefault when unset.
func (r *Registry) Resolve(props *classpath.Properties, fixture *classpath.Type) (string, error) {
	rn, err := r.Lookup(props.GetOr(Property, NameDefault))
	if err != nil {
		return "", err
	}
	return rn.ResolveEngineID(fixture), nil
}

// Select makes name the runner of props.
func Select(props *classpath.Properties, name string) {
	props.Set(Property, name)
}
