package database

import (
	"time"
)

const (
	RunKindSync        = "sync"
	RunKindActivityLog = "activity-log"

	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// Run is one execution of a sync or activity-log task.
type Run struct {
	ID             string     `json:"id"`
	Kind           string     `json:"kind"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Status         string     `json:"status"`
	Error          string     `json:"error,omitempty"`
	TotalItems     int        `json:"total_items"`
	ColumnItems    int        `json:"column_items"`
	CandidateItems int        `json:"candidate_items"`
	Initiatives    int        `json:"initiatives"`
	Skipped        int        `json:"skipped"`
}

// RunInitiative is a snapshot of one initiative as written by a run.
type RunInitiative struct {
	RunID     string `json:"-"`
	Repo      string `json:"repo"`
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Filename  string `json:"filename"`
	IssueURL  string `json:"issue_url"`
	State     string `json:"state"`
	UpdatedAt string `json:"updated_at"`
	ClosedAt  string `json:"closed_at"`
}
