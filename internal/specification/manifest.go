package specification

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Manifest is the content of a specification file.
type Manifest struct {
	// Title is the human-readable specification title. Optional; derived
	// from the fixture name when empty.
	Title string `yaml:"title,omitempty"`

	// Examples lists the examples in execution order.
	Examples []Example `yaml:"examples"`
}

// Example is a single reportable scenario of a specification.
type Example struct {
	// Name identifies the example within its specification.
	Name string `yaml:"name"`

	// Description explains what the example demonstrates.
	Description string `yaml:"description,omitempty"`
}

// Names returns the example names in manifest order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Examples))
	for i, ex := range m.Examples {
		names[i] = ex.Name
	}
	return names
}

// LoadManifest reads and parses a specification file.
// Unknown fields are rejected so that typos surface as errors.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses and validates manifest YAML. Strings are
// normalized to NFC so that titles and names compare byte-wise.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	m.Title = norm.NFC.String(m.Title)
	for i := range m.Examples {
		m.Examples[i].Name = norm.NFC.String(m.Examples[i].Name)
		m.Examples[i].Description = norm.NFC.String(m.Examples[i].Description)
	}

	if err := validateManifest(&m); err != nil {
		return nil, fmt.Errorf("invalid specification: %w", err)
	}
	return &m, nil
}

func validateManifest(m *Manifest) error {
	seen := make(map[string]int, len(m.Examples))
	for i, ex := range m.Examples {
		if ex.Name == "" {
			return fmt.Errorf("examples[%d]: name is required", i)
		}
		if prev, dup := seen[ex.Name]; dup {
			return fmt.Errorf("examples[%d]: name %q already used by examples[%d]", i, ex.Name, prev)
		}
		seen[ex.Name] = i
	}
	return nil
}
