package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/granito-source/concordion/internal/config"
	"github.com/granito-source/concordion/internal/store"
)

// NewRunsCommand creates the runs command, reading the run store.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List stored runs, or the events of one run",
		Long: `Runs reads the database written by run --db.

Example:
  concordion runs --db ./runs.db
  concordion runs --db ./runs.db 0190a1b2-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			if database == "" {
				database = cfg.Store.Path
			}
			if database == "" {
				return NewExitError(ExitCommandError, "no database: use --db or store.path")
			}

			st, err := store.Open(database)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if len(args) == 0 {
				return listRuns(cmd, st, out)
			}
			return showRun(cmd, st, out, args[0])
		},
	}
	cmd.Flags().StringVar(&database, "db", "", "path to SQLite database (overrides store.path)")

	return cmd
}

func listRuns(cmd *cobra.Command, st *store.Store, out *OutputFormatter) error {
	runs, err := st.Runs(contextOf(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}
	return out.Success(runs, func(w io.Writer) error {
		for _, r := range runs {
			c := r.Counts
			if _, err := fmt.Fprintf(w, "%s %-7s tests=%d failed=%d aborted=%d skipped=%d %s\n",
				r.ID, r.Status, c.Tests, c.Failed, c.Aborted, c.Skipped, r.Label); err != nil {
				return err
			}
		}
		return nil
	})
}

func showRun(cmd *cobra.Command, st *store.Store, out *OutputFormatter, id string) error {
	ctx := contextOf(cmd)
	run, err := st.Run(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	events, err := st.Events(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	data := map[string]any{"run": run, "events": events}
	return out.Success(data, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "%s %s %s\n", run.ID, run.Status, run.Label); err != nil {
			return err
		}
		for _, e := range events {
			line := fmt.Sprintf("%4d %-8s %s", e.Seq, e.Type, e.ID)
			if e.Status != "" {
				line += " " + e.Status
			}
			if e.Reason != "" {
				line += " (" + e.Reason + ")"
			}
			if e.Error != "" {
				line += ": " + e.Error
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	})
}
