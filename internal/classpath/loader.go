package classpath

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrTypeNotFound is returned by Load when no context in the delegation
// chain defines the requested name.
var ErrTypeNotFound = errors.New("type not found")

// ErrDuplicateType is returned by Define when the name is already taken in
// the same loader.
var ErrDuplicateType = errors.New("duplicate type")

// Installer populates a loader with types and services. Installers are the
// unit of application code: every context running the same installers ends
// up with an equivalent, but distinct, set of types.
type Installer func(l *Loader)

// Option configures a Loader.
type Option func(l *Loader)

// WithMarkers tags the loader with markers inspected by engines that need
// to know which context they are running in.
func WithMarkers(markers ...string) Option {
	return func(l *Loader) {
		for _, m := range markers {
			l.markers[m] = struct{}{}
		}
	}
}

// WithParentFirst lists packages (import path prefixes) that are always
// delegated to the parent loader.
func WithParentFirst(packages ...string) Option {
	return func(l *Loader) {
		l.parentFirst = append(l.parentFirst, packages...)
	}
}

// WithProperties replaces the loader's properties. Ignored for child
// loaders, which always share their root's properties.
func WithProperties(p *Properties) Option {
	return func(l *Loader) {
		if l.parent == nil && p != nil {
			l.props = p
		}
	}
}

// Loader is an isolated namespace of fixture types and services.
//
// Thread-safety: all methods are safe for concurrent use.
type Loader struct {
	name        string
	parent      *Loader
	markers     map[string]struct{}
	parentFirst []string
	props       *Properties

	mu       sync.RWMutex
	types    []*Type
	byName   map[string]*Type
	services map[string][]any
}

// NewLoader creates a root loader.
func NewLoader(name string, opts ...Option) *Loader {
	return newLoader(name, nil, opts)
}

// NewChild creates a loader delegating parent-first packages (and unknown
// names) to parent.
func NewChild(name string, parent *Loader, opts ...Option) *Loader {
	return newLoader(name, parent, opts)
}

func newLoader(name string, parent *Loader, opts []Option) *Loader {
	l := &Loader{
		name:     name,
		parent:   parent,
		markers:  make(map[string]struct{}),
		byName:   make(map[string]*Type),
		services: make(map[string][]any),
	}
	if parent != nil {
		l.props = parent.props
	} else {
		l.props = NewProperties()
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the loader name.
func (l *Loader) Name() string {
	return l.name
}

// Parent returns the parent loader, nil for a root.
func (l *Loader) Parent() *Loader {
	return l.parent
}

// HasMarker reports whether the loader itself carries the marker.
func (l *Loader) HasMarker(marker string) bool {
	_, ok := l.markers[marker]
	return ok
}

// Properties returns the process-wide properties visible from this loader.
func (l *Loader) Properties() *Properties {
	return l.props
}

// ParentFirst returns the parent-first package list.
func (l *Loader) ParentFirst() []string {
	out := make([]string, len(l.parentFirst))
	copy(out, l.parentFirst)
	return out
}

// Install runs the installers against the loader in order.
func (l *Loader) Install(installers ...Installer) *Loader {
	for _, install := range installers {
		install(l)
	}
	return l
}

// Define registers a type. For a parent-first package the type is defined
// in (or reused from) the parent.
func (l *Loader) Define(spec TypeSpec) (*Type, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("define in %s: empty type name", l.name)
	}
	if l.delegates(spec.Package) {
		qn := QualifiedName(spec.Package, spec.Name)
		if t, err := l.parent.Load(qn); err == nil {
			return t, nil
		}
		return l.parent.Define(spec)
	}

	t := &Type{
		pkg:      spec.Package,
		name:     spec.Name,
		markers:  make(map[string]struct{}, len(spec.Markers)),
		location: spec.Location,
		newFn:    spec.New,
		loader:   l,
	}
	for _, m := range spec.Markers {
		t.markers[m] = struct{}{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.byName[t.Name()]; exists {
		return nil, fmt.Errorf("define %s in %s: %w", t.Name(), l.name, ErrDuplicateType)
	}
	l.types = append(l.types, t)
	l.byName[t.Name()] = t
	return t, nil
}

// MustDefine is Define that panics on error. Intended for installers.
func (l *Loader) MustDefine(spec TypeSpec) *Type {
	t, err := l.Define(spec)
	if err != nil {
		panic(err)
	}
	return t
}

// Load resolves a qualified name in this context. Parent-first packages go
// to the parent directly; other names fall back to the parent when not
// defined locally.
func (l *Loader) Load(name string) (*Type, error) {
	pkg, _ := SplitName(name)
	if l.delegates(pkg) {
		return l.parent.Load(name)
	}

	l.mu.RLock()
	t, ok := l.byName[name]
	l.mu.RUnlock()
	if ok {
		return t, nil
	}
	if l.parent != nil {
		return l.parent.Load(name)
	}
	return nil, fmt.Errorf("load %s in %s: %w", name, l.name, ErrTypeNotFound)
}

// TypesInPackage returns every type of the package visible in this context,
// in definition order.
func (l *Loader) TypesInPackage(pkg string) []*Type {
	if l.delegates(pkg) {
		return l.parent.TypesInPackage(pkg)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*Type
	for _, t := range l.types {
		if t.pkg == pkg {
			out = append(out, t)
		}
	}
	return out
}

// Types returns all locally defined types in definition order.
func (l *Loader) Types() []*Type {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Type, len(l.types))
	copy(out, l.types)
	return out
}

// RegisterService appends a service implementation under kind.
func (l *Loader) RegisterService(kind string, impl any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services[kind] = append(l.services[kind], impl)
}

// Services returns the implementations registered under kind in this
// context only, in registration order. Service lookup is scoped: a child
// never sees its parent's services.
func (l *Loader) Services(kind string) []any {
	l.mu.RLock()
	defer l.mu.RUnlock()

	impls := l.services[kind]
	out := make([]any, len(impls))
	copy(out, impls)
	return out
}

// Service returns the first implementation registered under kind.
func (l *Loader) Service(kind string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	impls := l.services[kind]
	if len(impls) == 0 {
		return nil, false
	}
	return impls[0], true
}

// String implements fmt.Stringer.
func (l *Loader) String() string {
	return l.name
}

func (l *Loader) delegates(pkg string) bool {
	if l.parent == nil {
		return false
	}
	for _, prefix := range l.parentFirst {
		if pkg == prefix || strings.HasPrefix(pkg, prefix+"/") {
			return true
		}
	}
	return false
}
