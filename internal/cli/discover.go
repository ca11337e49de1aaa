package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/granito-source/concordion/internal/report"
)

// NewDiscoverCommand creates the discover command.
func NewDiscoverCommand(rootOpts *RootOptions, host HostFactory) *cobra.Command {
	sel := &SelectorOptions{}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Print the tree every engine discovers",
		Long: `Discover asks every engine for its tree without executing it.

Example:
  concordion discover --select-package spec
  concordion discover --select-class spec.DemoFixture --format json`,
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
			plan, err := s.launcher.Discover(req)
			if err != nil {
				_ = s.out.Error(err)
				return WrapExitError(ExitCommandError, "discovery failed", err)
			}

			trees := make([]any, len(plan.Roots))
			for i, root := range plan.Roots {
				trees[i] = report.TreeSnapshot(root)
			}
			return s.out.Success(trees, func(w io.Writer) error {
				for _, root := range plan.Roots {
					if err := report.WriteTree(w, root); err != nil {
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
