package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fixed-width so timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunStore records task runs in SQLite.
type RunStore struct {
	db  *DB
	now func() time.Time
}

func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db, now: time.Now}
}

// StartRun inserts a run in the running state.
func (r *RunStore) StartRun(kind string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: r.now().UTC(),
		Status:    RunStatusRunning,
	}

	_, err := r.db.Exec(`
		INSERT INTO sync_runs (id, kind, started_at, status)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Kind, run.StartedAt.Format(timeLayout), run.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	return run, nil
}

// FinishRun stores the counters and outcome of a run.
func (r *RunStore) FinishRun(run *Run, runErr error) error {
	finished := r.now().UTC()
	run.FinishedAt = &finished
	run.Status = RunStatusSuccess
	run.Error = ""
	if runErr != nil {
		run.Status = RunStatusFailed
		run.Error = runErr.Error()
	}

	result, err := r.db.Exec(`
		UPDATE sync_runs
		SET finished_at = ?, status = ?, error = ?,
		    total_items = ?, column_items = ?, candidate_items = ?, initiatives = ?, skipped = ?
		WHERE id = ?
	`, finished.Format(timeLayout), run.Status, run.Error,
		run.TotalItems, run.ColumnItems, run.CandidateItems, run.Initiatives, run.Skipped,
		run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("failed to finish run: run %s not found", run.ID)
	}

	return nil
}

// AddInitiatives stores the initiatives written by a run, keeping their order.
func (r *RunStore) AddInitiatives(runID string, initiatives []RunInitiative) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO run_initiatives (
			run_id, position, repo, number, title, status, filename, issue_url, state, updated_at, closed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare initiative insert: %w", err)
	}
	defer stmt.Close()

	for i, initiative := range initiatives {
		_, err := stmt.Exec(runID, i, initiative.Repo, initiative.Number, initiative.Title, initiative.Status,
			initiative.Filename, initiative.IssueURL, initiative.State, initiative.UpdatedAt, initiative.ClosedAt)
		if err != nil {
			return fmt.Errorf("failed to store initiative %s#%d: %w", initiative.Repo, initiative.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit initiatives: %w", err)
	}

	return nil
}

// GetRuns returns the most recent runs first.
func (r *RunStore) GetRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, kind, started_at, finished_at, status, error,
		       total_items, column_items, candidate_items, initiatives, skipped
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// GetLatestRun returns the most recent finished successful run of a kind, or
// nil when there is none.
func (r *RunStore) GetLatestRun(kind string) (*Run, error) {
	row := r.db.QueryRow(`
		SELECT id, kind, started_at, finished_at, status, error,
		       total_items, column_items, candidate_items, initiatives, skipped
		FROM sync_runs
		WHERE kind = ? AND status = ?
		ORDER BY started_at DESC
		LIMIT 1
	`, kind, RunStatusSuccess)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return run, nil
}

func (r *RunStore) GetRunInitiatives(runID string) ([]RunInitiative, error) {
	rows, err := r.db.Query(`
		SELECT run_id, repo, number, title, status, filename, issue_url, state, updated_at, closed_at
		FROM run_initiatives
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run initiatives: %w", err)
	}
	defer rows.Close()

	initiatives := make([]RunInitiative, 0)
	for rows.Next() {
		var i RunInitiative
		if err := rows.Scan(&i.RunID, &i.Repo, &i.Number, &i.Title, &i.Status, &i.Filename,
			&i.IssueURL, &i.State, &i.UpdatedAt, &i.ClosedAt); err != nil {
			return nil, fmt.Errorf("failed to scan initiative row: %w", err)
		}
		initiatives = append(initiatives, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating initiative rows: %w", err)
	}

	return initiatives, nil
}

func (r *RunStore) GetRunCount() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM sync_runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get run count: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var startedAt string
	var finishedAt sql.NullString

	err := s.Scan(&run.ID, &run.Kind, &startedAt, &finishedAt, &run.Status, &run.Error,
		&run.TotalItems, &run.ColumnItems, &run.CandidateItems, &run.Initiatives, &run.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run row: %w", err)
	}

	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("invalid started_at for run %s: %w", run.ID, err)
	}
	if finishedAt.Valid && finishedAt.String != "" {
		finished, err := time.Parse(timeLayout, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid finished_at for run %s: %w", run.ID, err)
		}
		run.FinishedAt = &finished
	}

	return &run, nil
}
