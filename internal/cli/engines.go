package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewEnginesCommand creates the engines command.
func NewEnginesCommand(rootOpts *RootOptions, host HostFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the engine identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, rootOpts, host)
			if err != nil {
				return err
			}
			engines, err := s.launcher.Engines()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load engines", err)
			}

			ids := make([]string, len(engines))
			for i, e := range engines {
				ids[i] = e.ID()
			}
			return s.out.Success(ids, func(w io.Writer) error {
				for _, id := range ids {
					if _, err := fmt.Fprintln(w, id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
