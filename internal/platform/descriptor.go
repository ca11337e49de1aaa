package platform

import "sync"

// Kind classifies a descriptor.
type Kind int

const (
	// KindContainer has children and no behavior of its own.
	KindContainer Kind = iota + 1
	// KindTest is an executable leaf.
	KindTest
	// KindContainerAndTest has children and behavior.
	KindContainerAndTest
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindTest:
		return "test"
	case KindContainerAndTest:
		return "container-and-test"
	default:
		return "unknown"
	}
}

// Descriptor is a node of a discovered tree.
type Descriptor interface {
	UniqueID() UniqueID
	DisplayName() string
	Kind() Kind

	Parent() Descriptor
	// SetParent is called by AddChild and RemoveChild; callers outside a
	// tree implementation should not use it.
	SetParent(parent Descriptor)

	Children() []Descriptor
	// AddChild appends child unless it is already present and makes this
	// descriptor its parent. A child may belong to several descriptors; it
	// is not removed from the one it had before.
	AddChild(child Descriptor)
	RemoveChild(child Descriptor)
	// RemoveChildren drops every child.
	RemoveChildren()
}

// BaseDescriptor implements Descriptor. Embed it (by pointer) and pass the
// embedding value as self so that children see the outer type as parent.
type BaseDescriptor struct {
	id          UniqueID
	displayName string
	kind        Kind
	self        Descriptor

	mu       sync.RWMutex
	parent   Descriptor
	children []Descriptor
}

// NewBaseDescriptor creates a descriptor. self is the value children will
// report as their parent; nil means the BaseDescriptor itself.
func NewBaseDescriptor(id UniqueID, displayName string, kind Kind, self Descriptor) *BaseDescriptor {
	d := &BaseDescriptor{id: id, displayName: displayName, kind: kind}
	if self == nil {
		self = d
	}
	d.self = self
	return d
}

// Bind sets the value reported as parent to children. Used by embedding
// types whose own address is only known after construction.
func (d *BaseDescriptor) Bind(self Descriptor) {
	d.self = self
}

func (d *BaseDescriptor) UniqueID() UniqueID  { return d.id }
func (d *BaseDescriptor) DisplayName() string { return d.displayName }
func (d *BaseDescriptor) Kind() Kind          { return d.kind }

func (d *BaseDescriptor) Parent() Descriptor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.parent
}

func (d *BaseDescriptor) SetParent(parent Descriptor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.parent = parent
}

func (d *BaseDescriptor) Children() []Descriptor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Descriptor, len(d.children))
	copy(out, d.children)
	return out
}

func (d *BaseDescriptor) AddChild(child Descriptor) {
	d.mu.Lock()
	for _, c := range d.children {
		if c == child {
			d.mu.Unlock()
			return
		}
	}
	d.children = append(d.children, child)
	d.mu.Unlock()

	child.SetParent(d.self)
}

func (d *BaseDescriptor) RemoveChild(child Descriptor) {
	d.mu.Lock()
	removed := false
	for i, c := range d.children {
		if c == child {
			d.children = append(d.children[:i:i], d.children[i+1:]...)
			removed = true
			break
		}
	}
	d.mu.Unlock()

	if removed && child.Parent() == d.self {
		child.SetParent(nil)
	}
}

func (d *BaseDescriptor) RemoveChildren() {
	d.mu.Lock()
	children := d.children
	d.children = nil
	d.mu.Unlock()

	for _, c := range children {
		if c.Parent() == d.self {
			c.SetParent(nil)
		}
	}
}

// ReplaceChildren swaps the children for children in one step, so readers
// see either the old list or the new one.
func (d *BaseDescriptor) ReplaceChildren(children ...Descriptor) {
	d.mu.Lock()
	old := d.children
	d.children = append([]Descriptor(nil), children...)
	d.mu.Unlock()

	for _, c := range old {
		if c.Parent() == d.self {
			c.SetParent(nil)
		}
	}
	for _, c := range children {
		c.SetParent(d.self)
	}
}

// Walk visits d and its descendants depth first, in child order.
func Walk(d Descriptor, visit func(Descriptor)) {
	visit(d)
	for _, c := range d.Children() {
		Walk(c, visit)
	}
}

// Root climbs parents up to the top of the tree.
func Root(d Descriptor) Descriptor {
	for p := d.Parent(); p != nil; p = d.Parent() {
		d = p
	}
	return d
}
