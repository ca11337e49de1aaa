package inject

import "fmt"

// TestContextManager prepares test instances created outside a container,
// the way a test framework's lifecycle would before running them.
type TestContextManager struct {
	container *Container
}

// NewTestContextManager creates a manager injecting from container.
func NewTestContextManager(container *Container) *TestContextManager {
	return &TestContextManager{container: container}
}

// PrepareTestInstance injects dependencies into an already constructed
// instance.
func (m *TestContextManager) PrepareTestInstance(instance any) error {
	if m.container == nil {
		return fmt.Errorf("prepare %T: no container", instance)
	}
	return m.container.Inject(instance)
}
