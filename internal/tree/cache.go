package tree

import (
	"sync"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/platform"
)

// SpecCache holds at most one SpecificationDescriptor per fixture type.
// Fixture types are keyed by identity, so the same name resolved in two
// loaders yields two entries.
//
// Thread-safety: all methods are safe for concurrent use. Attach is a
// single critical section covering lookup, insert and attachment. A cached
// descriptor is a child of every root that selected it; Parent reports the
// most recent one.
type SpecCache struct {
	mu    sync.Mutex
	specs map[*classpath.Type]*SpecificationDescriptor
}

// NewSpecCache creates an empty cache.
func NewSpecCache() *SpecCache {
	return &SpecCache{specs: make(map[*classpath.Type]*SpecificationDescriptor)}
}

// Attach returns the cached descriptor of fixture, creating it with create
// on a miss, and adds it to parent's children.
func (c *SpecCache) Attach(parent platform.Descriptor, fixture *classpath.Type, create func() *SpecificationDescriptor) *SpecificationDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()

	spec, ok := c.specs[fixture]
	if !ok {
		spec = create()
		c.specs[fixture] = spec
	}
	parent.AddChild(spec)
	return spec
}

// Get returns the cached descriptor of fixture.
func (c *SpecCache) Get(fixture *classpath.Type) (*SpecificationDescriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	spec, ok := c.specs[fixture]
	return spec, ok
}

// Len returns the number of cached descriptors.
func (c *SpecCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.specs)
}
