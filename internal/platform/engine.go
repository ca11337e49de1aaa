package platform

import (
	"fmt"

	"github.com/granito-source/concordion/internal/classpath"
)

// EngineService is the loader service kind under which EngineFactory
// values are registered.
const EngineService = "concordion.platform.engine"

// Engine discovers and executes a tree of tests.
type Engine interface {
	// ID returns the engine identifier.
	ID() string

	// Discover builds a tree for the request, rooted at a new descriptor
	// with the given id.
	Discover(req *DiscoveryRequest, id UniqueID) (Descriptor, error)

	// Execute runs a tree previously returned by Discover.
	Execute(req *ExecutionRequest) error
}

// EngineFactory creates an engine bound to the loader it is created in.
type EngineFactory func(loader *classpath.Loader) Engine

// RegisterEngine registers factory as an engine service of loader.
func RegisterEngine(loader *classpath.Loader, factory EngineFactory) {
	loader.RegisterService(EngineService, factory)
}

// LoadEngines instantiates every engine registered in loader, in
// registration order.
func LoadEngines(loader *classpath.Loader) ([]Engine, error) {
	var engines []Engine
	for i, svc := range loader.Services(EngineService) {
		factory, ok := svc.(EngineFactory)
		if !ok {
			return nil, fmt.Errorf("engine service %d in %s: unexpected type %T", i, loader.Name(), svc)
		}
		engines = append(engines, factory(loader))
	}
	return engines, nil
}
