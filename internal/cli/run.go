package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/report"
	"github.com/granito-source/concordion/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	SelectorOptions
	Database string

	// IDs overrides the run id generator; nil means UUIDv7.
	IDs store.IDGenerator
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	RunID    string         `json:"run_id,omitempty"`
	Counts   report.Counts  `json:"counts"`
	Failures []report.Event `json:"failures,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions, host HostFactory) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover and execute specifications",
		Long: `Run discovers the selected fixtures with every engine and executes the
trees. With --db (or store.path in the config) the run and its events are
stored in a SQLite database.

Exits with 1 when a test failed or aborted.

Example:
  concordion run --select-package spec
  concordion run --select-package spec/app --db ./runs.db --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpecifications(cmd, opts, host)
		},
	}
	opts.SelectorOptions.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides store.path)")

	return cmd
}

func runSpecifications(cmd *cobra.Command, opts *RunOptions, host HostFactory) error {
	s, err := newSession(cmd, opts.RootOptions, host)
	if err != nil {
		return err
	}
	req, err := opts.request(s.loader)
	if err != nil {
		return err
	}

	dbPath := s.cfg.Store.Path
	if opts.Database != "" {
		dbPath = opts.Database
	}

	var listener platform.ExecutionListener
	var trace *report.Trace
	var recorder *store.Recorder
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		recorder, err = st.BeginRun(contextOf(cmd), runLabel(opts), opts.IDs)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		listener, trace = recorder, recorder.Trace()
		s.logger.Info("recording run", "run_id", recorder.RunID(), "db", dbPath)
	} else {
		trace = report.NewTrace(nil)
		listener = trace
	}

	if _, err := s.launcher.Run(req, listener); err != nil {
		_ = s.out.Error(err)
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	result := RunResult{Counts: trace.Counts(), Failures: trace.Failures()}
	if recorder != nil {
		result.RunID = recorder.RunID()
		if err := recorder.Finish(); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}

	if err := s.out.Success(result, func(w io.Writer) error {
		return report.WriteSummary(w, trace)
	}); err != nil {
		return err
	}
	if !result.Counts.OK() {
		return NewExitError(ExitFailure, "tests failed")
	}
	return nil
}

func runLabel(opts *RunOptions) string {
	return strings.Join(append(append([]string(nil), opts.Packages...), opts.Classes...), " ")
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
