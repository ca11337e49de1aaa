// Package inject resolves fixture dependencies through a dig container.
//
// Beans are supplied by value, optionally exposed as interfaces. A struct
// field tagged `inject:""` is populated with the bean dig resolves for the
// field's type. Fixture objects implementing AfterInjector get a callback
// once their fields are set.
package inject

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/dig"

	"github.com/granito-source/concordion/internal/classpath"
)

// ContainerService is the loader service kind a Container is registered
// under.
const ContainerService = "concordion.inject.container"

// ErrNoBean is returned when no bean satisfies an injection point.
var ErrNoBean = errors.New("no bean")

// ErrNoContainer is returned by Current when the loader has no container.
var ErrNoContainer = errors.New("no container")

// AfterInjector is implemented by objects that validate or initialize
// themselves once their fields are injected.
type AfterInjector interface {
	AfterInject() error
}

// Container holds beans and creates dependent-scoped instances.
//
// Thread-safety: all methods are safe for concurrent use.
type Container struct {
	mu  sync.Mutex
	dig *dig.Container
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{dig: dig.New()}
}

// Provide supplies bean to the container. With no interfaces the bean is
// resolved by its own type; otherwise only by each interface, given as a
// pointer to it (new(Greeter)). Nil beans are ignored.
func (c *Container) Provide(bean any, as ...any) error {
	if bean == nil {
		return nil
	}
	v := reflect.ValueOf(bean)
	supply := reflect.MakeFunc(
		reflect.FuncOf(nil, []reflect.Type{v.Type()}, false),
		func([]reflect.Value) []reflect.Value { return []reflect.Value{v} },
	)

	var opts []dig.ProvideOption
	if len(as) > 0 {
		opts = append(opts, dig.As(as...))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.dig.Provide(supply.Interface(), opts...); err != nil {
		return fmt.Errorf("provide %T: %w", bean, err)
	}
	return nil
}

// MustProvide is Provide that panics on error. Intended for installers.
func (c *Container) MustProvide(bean any, as ...any) *Container {
	if err := c.Provide(bean, as...); err != nil {
		panic(err)
	}
	return c
}

// Lookup resolves the bean of type t.
func (c *Container) Lookup(t reflect.Type) (any, error) {
	var bean any
	receive := reflect.MakeFunc(
		reflect.FuncOf([]reflect.Type{t}, nil, false),
		func(args []reflect.Value) []reflect.Value {
			bean = args[0].Interface()
			return nil
		},
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.dig.Invoke(receive.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoBean, err)
	}
	return bean, nil
}

// Inject populates the tagged fields of target, which must be a pointer
// to a struct, then runs its AfterInject hook.
func (c *Container) Inject(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("inject %T: target must be a non-nil pointer to a struct", target)
	}

	elem := v.Elem()
	st := elem.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if _, ok := field.Tag.Lookup("inject"); !ok {
			continue
		}
		if !field.IsExported() {
			return fmt.Errorf("inject %s.%s: field is not exported", st.Name(), field.Name)
		}
		bean, err := c.Lookup(field.Type)
		if err != nil {
			return fmt.Errorf("inject %s.%s: %w", st.Name(), field.Name, err)
		}
		elem.Field(i).Set(reflect.ValueOf(bean))
	}

	if hook, ok := target.(AfterInjector); ok {
		if err := hook.AfterInject(); err != nil {
			return fmt.Errorf("inject %s: after inject: %w", st.Name(), err)
		}
	}
	return nil
}

// Select creates a new instance of t with its dependencies injected. The
// instance is dependent-scoped: every call returns a fresh object.
func (c *Container) Select(t *classpath.Type) (any, error) {
	obj, err := t.New()
	if err != nil {
		return nil, err
	}
	if err := c.Inject(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Register makes c the current container of loader.
func Register(loader *classpath.Loader, c *Container) {
	loader.RegisterService(ContainerService, c)
}

// Current returns the container registered in loader.
func Current(loader *classpath.Loader) (*Container, error) {
	svc, ok := loader.Service(ContainerService)
	if !ok {
		return nil, fmt.Errorf("%s: %w", loader.Name(), ErrNoContainer)
	}
	c, ok := svc.(*Container)
	if !ok {
		return nil, fmt.Errorf("%s: container service has unexpected type %T", loader.Name(), svc)
	}
	return c, nil
}
