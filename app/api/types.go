package api

import (
	"github.com/lysyi3m/roadmap-sync/app/database"
	"github.com/lysyi3m/roadmap-sync/app/tasks"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

type Handler struct {
	history   database.RunRepository
	scheduler tasks.TaskSchedulerInterface
	docsDir   string
	version   string
}

type runResponse struct {
	database.Run
	Duration string `json:"duration,omitempty"`
}

type initiativesResponse struct {
	Run         database.Run             `json:"run"`
	Initiatives []database.RunInitiative `json:"initiatives"`
	Total       int                      `json:"total"`
}
