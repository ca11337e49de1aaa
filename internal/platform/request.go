package platform

import "github.com/granito-source/concordion/internal/classpath"

// Selector seeds discovery.
type Selector interface {
	selectorKey() string
}

// ClassSelector selects a single type.
type ClassSelector struct {
	Type *classpath.Type
}

func (s ClassSelector) selectorKey() string {
	return "class:" + s.Type.Name() + "@" + s.Type.Loader().Name()
}

// PackageSelector selects every type of a package.
type PackageSelector struct {
	Package string
}

func (s PackageSelector) selectorKey() string {
	return "package:" + s.Package
}

// SelectClass is a convenience constructor.
func SelectClass(t *classpath.Type) ClassSelector {
	return ClassSelector{Type: t}
}

// SelectPackage is a convenience constructor.
func SelectPackage(pkg string) PackageSelector {
	return PackageSelector{Package: pkg}
}

// DiscoveryRequest carries the selectors of one discovery call and the
// context they are resolved in. It is immutable once built.
type DiscoveryRequest struct {
	loader    *classpath.Loader
	selectors []Selector
}

// NewDiscoveryRequest builds a request. Duplicate selectors are dropped,
// keeping the first occurrence.
func NewDiscoveryRequest(loader *classpath.Loader, selectors ...Selector) *DiscoveryRequest {
	seen := make(map[string]struct{}, len(selectors))
	kept := make([]Selector, 0, len(selectors))
	for _, s := range selectors {
		if s == nil {
			continue
		}
		if cs, ok := s.(ClassSelector); ok && cs.Type == nil {
			continue
		}
		key := s.selectorKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, s)
	}
	return &DiscoveryRequest{loader: loader, selectors: kept}
}

// Loader returns the context package selectors are scanned in.
func (r *DiscoveryRequest) Loader() *classpath.Loader {
	return r.loader
}

// Selectors returns all selectors in the order given.
func (r *DiscoveryRequest) Selectors() []Selector {
	out := make([]Selector, len(r.selectors))
	copy(out, r.selectors)
	return out
}

// ClassSelectors returns the class selectors in the order given.
func (r *DiscoveryRequest) ClassSelectors() []ClassSelector {
	var out []ClassSelector
	for _, s := range r.selectors {
		if cs, ok := s.(ClassSelector); ok {
			out = append(out, cs)
		}
	}
	return out
}

// PackageSelectors returns the package selectors in the order given.
func (r *DiscoveryRequest) PackageSelectors() []PackageSelector {
	var out []PackageSelector
	for _, s := range r.selectors {
		if ps, ok := s.(PackageSelector); ok {
			out = append(out, ps)
		}
	}
	return out
}

// ExecutionRequest asks an engine to run a previously discovered tree.
type ExecutionRequest struct {
	Root       Descriptor
	Listener   ExecutionListener
	Properties *classpath.Properties
}

// NewExecutionRequest builds a request; a nil listener is replaced by a
// no-op listener.
func NewExecutionRequest(root Descriptor, listener ExecutionListener, props *classpath.Properties) *ExecutionRequest {
	if listener == nil {
		listener = NopListener{}
	}
	if props == nil {
		props = classpath.NewProperties()
	}
	return &ExecutionRequest{Root: root, Listener: listener, Properties: props}
}
