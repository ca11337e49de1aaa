package specification

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/granito-source/concordion/internal/classpath"
)

// Locator resolves the example names of a fixture. Implementations may
// fail with an I/O error; the order of the returned names is the order of
// the example descriptors.
type Locator interface {
	ExampleNames(fixture *classpath.Type) ([]string, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(fixture *classpath.Type) ([]string, error)

// ExampleNames implements Locator.
func (f LocatorFunc) ExampleNames(fixture *classpath.Type) ([]string, error) {
	return f(fixture)
}

// Extension is the file extension of specification manifests.
const Extension = ".yaml"

// ClassNameLocator finds a fixture's manifest next to its sources, named
// after the fixture.
type ClassNameLocator struct{}

// Path returns the manifest path for fixture.
func (ClassNameLocator) Path(fixture *classpath.Type) string {
	return filepath.Join(fixture.Location(), BaseName(fixture)+Extension)
}

// Manifest loads the fixture's manifest.
func (l ClassNameLocator) Manifest(fixture *classpath.Type) (*Manifest, error) {
	if fixture.Location() == "" {
		return nil, fmt.Errorf("fixture %s has no source location", fixture.Name())
	}
	return LoadManifest(l.Path(fixture))
}

// ExampleNames implements Locator.
func (l ClassNameLocator) ExampleNames(fixture *classpath.Type) ([]string, error) {
	m, err := l.Manifest(fixture)
	if err != nil {
		return nil, err
	}
	return m.Names(), nil
}

// BaseName strips the Fixture or Test suffix from the simple name.
func BaseName(fixture *classpath.Type) string {
	name := fixture.SimpleName()
	for _, suffix := range []string{"Fixture", "Test"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok && trimmed != "" {
			return trimmed
		}
	}
	return name
}

// FSLocator reads manifests from a file system, typically an embedded
// one, laid out by package: fixture spec/app.DemoFixture maps to
// <Dir>/spec/app/Demo.yaml.
type FSLocator struct {
	FS  fs.FS
	Dir string
}

// Path returns the manifest path for fixture within the file system.
func (l FSLocator) Path(fixture *classpath.Type) string {
	return path.Join(l.Dir, fixture.Package(), BaseName(fixture)+Extension)
}

// Manifest loads the fixture's manifest.
func (l FSLocator) Manifest(fixture *classpath.Type) (*Manifest, error) {
	data, err := fs.ReadFile(l.FS, l.Path(fixture))
	if err != nil {
		return nil, fmt.Errorf("failed to read specification: %w", err)
	}
	return ParseManifest(data)
}

// ExampleNames implements Locator.
func (l FSLocator) ExampleNames(fixture *classpath.Type) ([]string, error) {
	m, err := l.Manifest(fixture)
	if err != nil {
		return nil, err
	}
	return m.Names(), nil
}
