// Package config loads the launcher configuration from a YAML or CUE file
// and the environment.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/granito-source/concordion/internal/runner"
)

//go:embed schema.cue
var schemaCUE string

// Environment variables overriding the file.
const (
	EnvRunner     = "CONCORDION_RUNNER"
	EnvAppCommand = "CONCORDION_APP_COMMAND"
	EnvStorePath  = "CONCORDION_DB"
)

// Config drives a launcher run.
type Config struct {
	// Engines restricts the engines run; empty means all.
	Engines []string `yaml:"engines" json:"engines"`

	// Runner names the runner resolving engine ids; empty means the
	// default runner.
	Runner string `yaml:"runner" json:"runner"`

	// Properties are copied into the host loader's properties.
	Properties map[string]string `yaml:"properties" json:"properties"`

	App   App   `yaml:"app" json:"app"`
	Store Store `yaml:"store" json:"store"`
}

// App configures the bootstrapped application.
type App struct {
	// Command launches the application; empty runs it in process.
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Env         map[string]string `yaml:"env" json:"env"`
	ProjectRoot string            `yaml:"project_root" json:"project_root"`
}

// Store configures the run store.
type Store struct {
	// Path of the SQLite database; empty disables persistence.
	Path string `yaml:"path" json:"path"`
}

// Default returns the configuration used without a file: every engine,
// the default runner, the application in process and no store.
func Default() *Config {
	return &Config{}
}

// CommandLine returns the application command followed by its arguments,
// nil when no command is configured.
func (c *Config) CommandLine() []string {
	if c.App.Command == "" {
		return nil
	}
	return append([]string{c.App.Command}, c.App.Args...)
}

// Load reads path (".yaml", ".yml" or ".cue"), applies the environment
// and validates the result. An empty path loads the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		switch ext := filepath.Ext(path); ext {
		case ".yaml", ".yml":
			err = decodeYAML(data, cfg)
		case ".cue":
			err = decodeCUE(path, data, cfg)
		default:
			err = fmt.Errorf("unsupported config format %q", ext)
		}
		if err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func decodeCUE(path string, data []byte, cfg *Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return fmt.Errorf("failed to parse CUE: %s", cueerrors.Details(err, nil))
	}
	v = schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("config does not match schema: %s", cueerrors.Details(err, nil))
	}
	if err := v.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode CUE: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvRunner); ok && v != "" {
		c.Runner = v
	}
	if v, ok := lookup(EnvAppCommand); ok && v != "" {
		c.App.Command = v
	}
	if v, ok := lookup(EnvStorePath); ok && v != "" {
		c.Store.Path = v
	}
}

// Validate checks values a schema cannot: the runner must be registered
// and engine ids unique.
func (c *Config) Validate() error {
	if c.Runner != "" {
		if _, err := runner.DefaultRegistry().Lookup(c.Runner); err != nil {
			return err
		}
	}
	for i, id := range c.Engines {
		if id == "" {
			return fmt.Errorf("engines[%d]: id is required", i)
		}
		if j := slices.Index(c.Engines, id); j < i {
			return fmt.Errorf("engines[%d]: %q already listed as engines[%d]", i, id, j)
		}
	}
	return nil
}
