package cli

import (
	"log/slog"
	"maps"

	"github.com/spf13/cobra"

	"github.com/granito-source/concordion/internal/bootstrap"
	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/config"
	"github.com/granito-source/concordion/internal/engines/app"
	"github.com/granito-source/concordion/internal/engines/legacy"
	"github.com/granito-source/concordion/internal/engines/lifecycle"
	"github.com/granito-source/concordion/internal/engines/plain"
	"github.com/granito-source/concordion/internal/launcher"
	"github.com/granito-source/concordion/internal/runner"
	"github.com/granito-source/concordion/internal/samples"
	"github.com/granito-source/concordion/internal/tree"
)

// HostFactory builds the host loader for a configuration.
type HostFactory func(cfg *config.Config, logger *slog.Logger) *classpath.Loader

// SamplesHost installs the sample fixtures and every engine. The app
// engine bootstraps a runtime running the same installers.
func SamplesHost(cfg *config.Config, logger *slog.Logger) *classpath.Loader {
	treeOpts := []tree.Option{tree.WithLocator(samples.Locator()), tree.WithLogger(logger)}
	builder := &bootstrap.Builder{
		ProjectRoot: cfg.App.ProjectRoot,
		Command:     cfg.CommandLine(),
		Env:         maps.Clone(cfg.App.Env),
		Logger:      logger,
	}
	builder.Installers = []classpath.Installer{
		samples.Install,
		plain.Install(treeOpts...),
		lifecycle.Install(treeOpts...),
		app.Install(builder, app.WithLogger(logger), app.WithTreeOptions(treeOpts...)),
		legacy.Install(legacy.WithLocator(samples.Locator()), legacy.WithLogger(logger)),
	}
	return classpath.NewLoader("host").Install(builder.Installers...)
}

// session is what every command works with: the loaded configuration, a
// logger and the host loader.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	loader   *classpath.Loader
	launcher *launcher.Launcher
	out      *OutputFormatter
}

func newSession(cmd *cobra.Command, opts *RootOptions, host HostFactory) (*session, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	loader := host(cfg, logger)
	loader.Properties().SetAll(cfg.Properties)

	return &session{
		cfg:      cfg,
		logger:   logger,
		loader:   loader,
		launcher: launcher.New(loader, launcher.WithEngines(cfg.Engines...), launcher.WithLogger(logger)),
		out:      &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
	}, nil
}

// selectRunner applies the configured runner. Engines select their own
// runner when created, so this runs after they are loaded.
func (s *session) selectRunner() {
	if s.cfg.Runner != "" {
		runner.Select(s.loader.Properties(), s.cfg.Runner)
	}
}
