package testutil

import (
	"fmt"

	"github.com/granito-source/concordion/internal/classpath"
)

// StaticLocator maps qualified fixture names to example names. Unknown
// fixtures fail like a missing specification file would.
type StaticLocator map[string][]string

// ExampleNames implements specification.Locator.
func (s StaticLocator) ExampleNames(fixture *classpath.Type) ([]string, error) {
	names, ok := s[fixture.Name()]
	if !ok {
		return nil, fmt.Errorf("no specification for %s", fixture.Name())
	}
	return names, nil
}
