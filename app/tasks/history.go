package tasks

import (
	"log/slog"

	"github.com/lysyi3m/roadmap-sync/app/database"
)

// startRun opens a history record. History is optional: a nil repository or
// a storage failure yields a nil run and the task proceeds.
func startRun(history database.RunRepository, kind string) *database.Run {
	if history == nil {
		return nil
	}

	run, err := history.StartRun(kind)
	if err != nil {
		slog.Warn("Failed to record run start", "kind", kind, "error", err)
		return nil
	}
	return run
}

func finishRun(history database.RunRepository, run *database.Run, result *SyncResult, runErr error) {
	if history == nil || run == nil {
		return
	}

	if result != nil {
		run.TotalItems = result.Total
		run.ColumnItems = result.InColumns
		run.CandidateItems = result.Candidates
		run.Initiatives = len(result.Initiatives)
		run.Skipped = result.Skipped
	}

	if err := history.FinishRun(run, runErr); err != nil {
		slog.Warn("Failed to record run result", "run_id", run.ID, "error", err)
	}
}
