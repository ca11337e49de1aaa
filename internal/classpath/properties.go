package classpath

import (
	"sort"
	"sync"
)

// Properties is a concurrency-safe string map shared by every loader of a
// delegation tree.
type Properties struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewProperties creates an empty property set.
func NewProperties() *Properties {
	return &Properties{m: make(map[string]string)}
}

// Get returns the value for key.
func (p *Properties) Get(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.m[key]
	return v, ok
}

// GetOr returns the value for key or def when unset.
func (p *Properties) GetOr(key, def string) string {
	if v, ok := p.Get(key); ok {
		return v
	}
	return def
}

// Set stores value under key.
func (p *Properties) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[key] = value
}

// SetAll stores every entry of values.
func (p *Properties) SetAll(values map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, v := range values {
		p.m[k] = v
	}
}

// Keys returns the property names in sorted order.
func (p *Properties) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	keys := make([]string, 0, len(p.m))
	for k := range p.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
