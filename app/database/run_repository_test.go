package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "history", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestOpen_RunsMigrations(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}

func TestRunStore_RoundTrip(t *testing.T) {
	store := NewRunStore(openTestDB(t))
	store.now = fixedClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	run, err := store.StartRun(RunKindSync)
	require.NoError(t, err)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.NotEmpty(t, run.ID)

	require.NoError(t, store.AddInitiatives(run.ID, []RunInitiative{
		{Repo: "org/infra", Number: 2, Title: "Second on board", Status: "Done", Filename: "issue-org-infra-2", IssueURL: "https://github.com/org/infra/issues/2", State: "CLOSED", ClosedAt: "2024-01-01T00:00:00Z"},
		{Repo: "org/infra", Number: 1, Title: "First", Status: "In flight", Filename: "issue-org-infra-1", IssueURL: "https://github.com/org/infra/issues/1", State: "OPEN"},
	}))

	run.TotalItems = 10
	run.ColumnItems = 6
	run.CandidateItems = 3
	run.Initiatives = 2
	run.Skipped = 1
	require.NoError(t, store.FinishRun(run, nil))

	latest, err := store.GetLatestRun(RunKindSync)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, RunStatusSuccess, latest.Status)
	assert.Equal(t, 10, latest.TotalItems)
	assert.Equal(t, 1, latest.Skipped)
	require.NotNil(t, latest.FinishedAt)
	assert.True(t, latest.FinishedAt.After(latest.StartedAt))
	assert.True(t, latest.StartedAt.Equal(run.StartedAt))

	initiatives, err := store.GetRunInitiatives(run.ID)
	require.NoError(t, err)
	require.Len(t, initiatives, 2)
	assert.Equal(t, 2, initiatives[0].Number)
	assert.Equal(t, "2024-01-01T00:00:00Z", initiatives[0].ClosedAt)
	assert.Equal(t, "First", initiatives[1].Title)
}

func TestRunStore_LatestSkipsFailedRuns(t *testing.T) {
	store := NewRunStore(openTestDB(t))
	store.now = fixedClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	none, err := store.GetLatestRun(RunKindSync)
	require.NoError(t, err)
	assert.Nil(t, none)

	ok, err := store.StartRun(RunKindSync)
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(ok, nil))

	failed, err := store.StartRun(RunKindSync)
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(failed, errors.New("write failed")))

	activity, err := store.StartRun(RunKindActivityLog)
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(activity, nil))

	latest, err := store.GetLatestRun(RunKindSync)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, ok.ID, latest.ID)

	runs, err := store.GetRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, activity.ID, runs[0].ID)
	assert.Equal(t, RunStatusFailed, runs[1].Status)
	assert.Equal(t, "write failed", runs[1].Error)

	count, err := store.GetRunCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRunStore_FinishUnknownRun(t *testing.T) {
	store := NewRunStore(openTestDB(t))

	err := store.FinishRun(&Run{ID: "missing"}, nil)
	assert.Error(t, err)
}
