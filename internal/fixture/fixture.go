// Package fixture creates fixture objects for specifications.
//
// Three strategies exist: plain construction, resolution from the current
// injection container of the fixture's context, and plain construction
// followed by test-lifecycle preparation. Every failure is reported as a
// construction error carrying the fixture name.
package fixture

import (
	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/inject"
	"github.com/granito-source/concordion/internal/platform"
)

// Factory creates the fixture object of a specification.
type Factory interface {
	CreateFixtureObject(fixture *classpath.Type) (any, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(fixture *classpath.Type) (any, error)

// CreateFixtureObject implements Factory.
func (f FactoryFunc) CreateFixtureObject(fixture *classpath.Type) (any, error) {
	return f(fixture)
}

// Plain constructs a fresh instance. No side effects.
type Plain struct{}

// CreateFixtureObject implements Factory.
func (Plain) CreateFixtureObject(fixture *classpath.Type) (any, error) {
	obj, err := fixture.New()
	if err != nil {
		return nil, platform.NewConstructionError(fixture.Name(), err)
	}
	return obj, nil
}

// Container asks the injection container of the fixture's own context for
// an instance. The container owns the instance.
type Container struct{}

// CreateFixtureObject implements Factory.
func (Container) CreateFixtureObject(fixture *classpath.Type) (any, error) {
	c, err := inject.Current(fixture.Loader())
	if err != nil {
		return nil, platform.NewConstructionError(fixture.Name(), err)
	}
	obj, err := c.Select(fixture)
	if err != nil {
		return nil, platform.NewConstructionError(fixture.Name(), err)
	}
	return obj, nil
}

// Lifecycle constructs an instance and prepares it through the test
// context manager of the fixture's context.
type Lifecycle struct{}

// CreateFixtureObject implements Factory.
func (Lifecycle) CreateFixtureObject(fixture *classpath.Type) (any, error) {
	obj, err := fixture.New()
	if err != nil {
		return nil, platform.NewConstructionError(fixture.Name(), err)
	}
	c, err := inject.Current(fixture.Loader())
	if err != nil {
		return nil, platform.NewConstructionError(fixture.Name(), err)
	}
	if err := inject.NewTestContextManager(c).PrepareTestInstance(obj); err != nil {
		return nil, platform.NewConstructionError(fixture.Name(), err)
	}
	return obj, nil
}
