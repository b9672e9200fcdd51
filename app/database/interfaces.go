package database

type RunRepository interface {
	StartRun(kind string) (*Run, error)
	FinishRun(run *Run, runErr error) error
	AddInitiatives(runID string, initiatives []RunInitiative) error

	GetRuns(limit int) ([]Run, error)
	GetLatestRun(kind string) (*Run, error)
	GetRunInitiatives(runID string) ([]RunInitiative, error)
	GetRunCount() (int, error)
}

var _ RunRepository = (*RunStore)(nil)
