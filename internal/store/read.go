package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/granito-source/concordion/internal/platform"
	"github.com/granito-source/concordion/internal/report"
)

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is a stored run.
type Run struct {
	ID     string        `json:"id"`
	Label  string        `json:"label"`
	Status string        `json:"status"`
	Counts report.Counts `json:"counts"`
}

const runColumns = `id, label, status, tests, successful, failed, aborted, skipped`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Label, &r.Status,
		&r.Counts.Tests, &r.Counts.Successful, &r.Counts.Failed, &r.Counts.Aborted, &r.Counts.Skipped)
	return r, err
}

// Runs returns every run, oldest first. Returns an empty slice, not nil,
// when there are none.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Run returns one run.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run %s: %w", id, err)
	}
	return r, nil
}

// Events returns the events of a run ordered by sequence number.
func (s *Store) Events(ctx context.Context, runID string) ([]report.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, type, descriptor_id, display_name, kind, status, reason, error
		FROM events
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []report.Event{}
	for rows.Next() {
		var e report.Event
		var kind string
		if err := rows.Scan(&e.Seq, &e.Type, &e.ID, &e.Name, &kind, &e.Status, &e.Reason, &e.Error); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = parseKind(kind)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func parseKind(s string) platform.Kind {
	for _, k := range []platform.Kind{platform.KindContainer, platform.KindTest, platform.KindContainerAndTest} {
		if k.String() == s {
			return k
		}
	}
	return 0
}
