package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/granito-source/concordion/internal/discovery"
	"github.com/granito-source/concordion/internal/runner"
)

// Resolution pairs a fixture with the engine its runner chose.
type Resolution struct {
	Fixture string `json:"fixture"`
	Runner  string `json:"runner"`
	Engine  string `json:"engine"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions, host HostFactory) *cobra.Command {
	sel := &SelectorOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the engine the runner resolves for each fixture",
		Long: `Resolve lists the selected fixtures with the engine identifier chosen by
the runner in effect: the configured one, otherwise the one selected by
the last engine created.

Example:
  concordion resolve --select-package spec/legacy
  CONCORDION_RUNNER=app concordion resolve --select-package spec/app`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, rootOpts, host)
			if err != nil {
				return err
			}
			req, err := sel.request(s.loader)
			if err != nil {
				return err
			}
			if _, err := s.launcher.Engines(); err != nil {
				return WrapExitError(ExitCommandError, "failed to load engines", err)
			}
			s.selectRunner()

			props := s.loader.Properties()
			registry := runner.DefaultRegistry()
			var out []Resolution
			for t := range discovery.FixtureStream(req) {
				id, err := registry.Resolve(props, t)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to resolve engine", err)
				}
				out = append(out, Resolution{
					Fixture: t.Name(),
					Runner:  props.GetOr(runner.Property, runner.NameDefault),
					Engine:  id,
				})
			}

			return s.out.Success(out, func(w io.Writer) error {
				for _, r := range out {
					if _, err := fmt.Fprintf(w, "%s -> %s (runner %s)\n", r.Fixture, r.Engine, r.Runner); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	sel.register(cmd)

	return cmd
}
