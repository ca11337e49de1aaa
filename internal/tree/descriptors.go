package tree

import (
	"errors"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/fixture"
	"github.com/granito-source/concordion/internal/hierarchical"
	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/specification"
)

// ErrNoFixture is returned when an example runs without a fixture object.
var ErrNoFixture = errors.New("no fixture object")

// NewRootDescriptor creates the engine root of a discovery call.
func NewRootDescriptor(id platform.UniqueID, title string) *platform.BaseDescriptor {
	return platform.NewBaseDescriptor(id, title, platform.KindContainer, nil)
}

// SpecificationDescriptor represents one fixture type.
type SpecificationDescriptor struct {
	*platform.BaseDescriptor

	fixture *classpath.Type
	factory fixture.Factory
}

// NewSpecificationDescriptor creates the descriptor of fixture below the
// descriptor identified by parentID.
func NewSpecificationDescriptor(parentID platform.UniqueID, fixtureType *classpath.Type, factory fixture.Factory) *SpecificationDescriptor {
	d := &SpecificationDescriptor{fixture: fixtureType, factory: factory}
	d.BaseDescriptor = platform.NewBaseDescriptor(
		parentID.Append(platform.SegmentSpecification, fixtureType.Name()),
		specification.Title(fixtureType),
		platform.KindContainer,
		d,
	)
	return d
}

// Fixture returns the fixture type.
func (d *SpecificationDescriptor) Fixture() *classpath.Type {
	return d.fixture
}

// CreateFixtureObject creates the fixture object through the descriptor's
// factory.
func (d *SpecificationDescriptor) CreateFixtureObject() (any, error) {
	return d.factory.CreateFixtureObject(d.fixture)
}

// ReplaceExamples swaps the children for one example per name, in order.
// Readers never observe a partially rebuilt list.
func (d *SpecificationDescriptor) ReplaceExamples(names []string) {
	examples := make([]platform.Descriptor, 0, len(names))
	for _, name := range names {
		examples = append(examples, NewExampleDescriptor(d, name))
	}
	d.ReplaceChildren(examples...)
}

// Examples returns the example children.
func (d *SpecificationDescriptor) Examples() []*ExampleDescriptor {
	var out []*ExampleDescriptor
	for _, c := range d.Children() {
		if ex, ok := c.(*ExampleDescriptor); ok {
			out = append(out, ex)
		}
	}
	return out
}

// Prepare creates the fixture object shared by the examples.
func (d *SpecificationDescriptor) Prepare(ctx *hierarchical.Context) (*hierarchical.Context, error) {
	obj, err := d.CreateFixtureObject()
	if err != nil {
		return nil, err
	}
	return ctx.WithFixture(obj), nil
}

// Execute implements hierarchical.Node; a specification has no behavior of
// its own.
func (d *SpecificationDescriptor) Execute(*hierarchical.Context) error {
	return nil
}

// ExampleDescriptor is a leaf running one example.
type ExampleDescriptor struct {
	*platform.BaseDescriptor

	name string
}

// NewExampleDescriptor creates the descriptor of example name below spec.
// It is not added to spec.
func NewExampleDescriptor(spec platform.Descriptor, name string) *ExampleDescriptor {
	d := &ExampleDescriptor{name: name}
	d.BaseDescriptor = platform.NewBaseDescriptor(
		spec.UniqueID().Append(platform.SegmentExample, name),
		name,
		platform.KindTest,
		d,
	)
	return d
}

// Name returns the example name.
func (d *ExampleDescriptor) Name() string {
	return d.name
}

// Prepare implements hierarchical.Node.
func (d *ExampleDescriptor) Prepare(ctx *hierarchical.Context) (*hierarchical.Context, error) {
	return ctx, nil
}

// Execute runs the example against the specification's fixture object.
func (d *ExampleDescriptor) Execute(ctx *hierarchical.Context) error {
	if ctx.Fixture == nil {
		return ErrNoFixture
	}
	return specification.RunExample(ctx.Fixture, d.name)
}
