package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/platform"
)

// ModeTest is the launch mode of application runtimes started for tests.
const ModeTest = "test"

// ModeProperty holds the launch mode in the runtime's properties.
const ModeProperty = "concordion.mode"

const modulePath = "github.com/granito-source/concordion/internal/"

// ParentFirst lists the packages shared between the host and runtime
// loaders rather than defined again in the runtime.
var ParentFirst = []string{
	modulePath + "platform",
	modulePath + "classpath",
	modulePath + "bootstrap",
}

// ErrNoLocation is returned for fixtures without a source location.
var ErrNoLocation = errors.New("fixture has no source location")

// Bootstrapper assembles the runtime for a fixture.
type Bootstrapper interface {
	Bootstrap(fixture *classpath.Type) (StartupAction, error)
}

// BootstrapFunc adapts a function to Bootstrapper.
type BootstrapFunc func(fixture *classpath.Type) (StartupAction, error)

// Bootstrap implements Bootstrapper.
func (f BootstrapFunc) Bootstrap(fixture *classpath.Type) (StartupAction, error) {
	return f(fixture)
}

// Builder is the default Bootstrapper.
type Builder struct {
	// ProjectRoot is the working directory of the application. Default:
	// the current directory.
	ProjectRoot string

	// Installers populate the runtime loader, in order.
	Installers []classpath.Installer

	// Command launches the application. Empty means the application runs
	// in process.
	Command []string

	// Env is added to the application's environment.
	Env map[string]string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Runtime describes an assembled runtime.
type Runtime struct {
	ProjectRoot     string
	ApplicationRoot []string
	ParentFirst     []string
	Mode            string
}

// Describe resolves the locations of the runtime for fixture.
func (b *Builder) Describe(fixture *classpath.Type) (Runtime, error) {
	testLocation := fixture.Location()
	if testLocation == "" {
		return Runtime{}, fmt.Errorf("%s: %w", fixture.Name(), ErrNoLocation)
	}

	projectRoot := b.ProjectRoot
	if projectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Runtime{}, fmt.Errorf("project root: %w", err)
		}
		projectRoot = wd
	}
	projectRoot, err := filepath.Abs(filepath.Clean(projectRoot))
	if err != nil {
		return Runtime{}, fmt.Errorf("project root: %w", err)
	}

	return Runtime{
		ProjectRoot:     projectRoot,
		ApplicationRoot: []string{AppLocation(testLocation), testLocation},
		ParentFirst:     slices.Clone(ParentFirst),
		Mode:            ModeTest,
	}, nil
}

// Bootstrap implements Bootstrapper.
func (b *Builder) Bootstrap(fixture *classpath.Type) (StartupAction, error) {
	rt, err := b.Describe(fixture)
	if err != nil {
		return nil, err
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loader := b.Augment(fixture.Loader(), rt)
	loader.Properties().Set(ModeProperty, rt.Mode)

	logger.Debug("runtime assembled",
		"fixture", fixture.Name(),
		"project_root", rt.ProjectRoot,
		"application_root", rt.ApplicationRoot,
		"loader", loader.Name(),
	)

	return &ExecAction{
		loader:    loader,
		command:   slices.Clone(b.Command),
		env:       maps.Clone(b.Env),
		dir:       rt.ProjectRoot,
		mode:      rt.Mode,
		logger:    logger,
		overrides: make(map[string]string),
	}, nil
}

// Augment creates the runtime loader below parent.
func (b *Builder) Augment(parent *classpath.Loader, rt Runtime) *classpath.Loader {
	return classpath.NewChild("runtime:"+filepath.Base(rt.ApplicationRoot[0]), parent,
		classpath.WithMarkers(platform.MarkerRuntime),
		classpath.WithParentFirst(rt.ParentFirst...),
	).Install(b.Installers...)
}

// AppLocation returns the nearest directory at or above testLocation
// holding a go.mod file, or testLocation itself when there is none.
func AppLocation(testLocation string) string {
	dir := filepath.Clean(testLocation)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Clean(testLocation)
		}
		dir = parent
	}
}
