package api

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/roadmap-sync/app/database"
	"github.com/lysyi3m/roadmap-sync/app/tasks"
)

// NewHandler wires the preview server. history and scheduler may be nil;
// the endpoints that need them then answer 503.
func NewHandler(history database.RunRepository, scheduler tasks.TaskSchedulerInterface, docsDir, version string) *Handler {
	return &Handler{
		history:   history,
		scheduler: scheduler,
		docsDir:   docsDir,
		version:   version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":    time.Now().In(time.Local).Format(time.RFC3339),
		"docs_present": dirExists(h.docsDir),
		"history":      h.history != nil,
	}

	if h.history != nil {
		if count, err := h.history.GetRunCount(); err == nil {
			health["runs"] = count
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListRuns(c *gin.Context) {
	if !h.requireHistory(c) {
		return
	}

	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(parsed, maxRunsLimit)
	}

	runs, err := h.history.GetRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		response = append(response, newRunResponse(run))
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"runs":  response,
		"total": len(response),
	})
}

func (h *Handler) APIGetLatestRun(c *gin.Context) {
	if !h.requireHistory(c) {
		return
	}

	kind := c.DefaultQuery("kind", database.RunKindSync)
	if kind != database.RunKindSync && kind != database.RunKindActivityLog {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown run kind", "kind": kind})
		return
	}

	run, err := h.history.GetLatestRun(kind)
	if err != nil {
		slog.Error("Database error", "operation", "get_latest_run", "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No successful run recorded", "kind": kind})
		return
	}

	c.JSON(http.StatusOK, newRunResponse(*run))
}

// APIListInitiatives returns the initiatives written by the latest
// successful sync.
func (h *Handler) APIListInitiatives(c *gin.Context) {
	if !h.requireHistory(c) {
		return
	}

	run, err := h.history.GetLatestRun(database.RunKindSync)
	if err != nil {
		slog.Error("Database error", "operation", "get_latest_run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No successful sync recorded"})
		return
	}

	initiatives, err := h.history.GetRunInitiatives(run.ID)
	if err != nil {
		slog.Error("Database error", "operation", "get_run_initiatives", "run_id", run.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := make([]database.RunInitiative, 0, len(initiatives))
		for _, i := range initiatives {
			if i.Status == status {
				filtered = append(filtered, i)
			}
		}
		initiatives = filtered
	}

	c.JSON(http.StatusOK, initiativesResponse{
		Run:         *run,
		Initiatives: initiatives,
		Total:       len(initiatives),
	})
}

func (h *Handler) APITriggerSync(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler not running"})
		return
	}

	ids, err := h.scheduler.EnqueueSync()
	if err != nil {
		slog.Warn("Failed to enqueue sync", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue sync",
			"message": err.Error(),
		})
		return
	}

	slog.Info("Sync enqueued", "tasks", ids)

	c.JSON(http.StatusAccepted, map[string]interface{}{
		"status": "queued",
		"tasks":  ids,
	})
}

func (h *Handler) requireHistory(c *gin.Context) bool {
	if h.history != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":   "Run history disabled",
		"message": "Start the server with --history-db to record runs",
	})
	return false
}

func newRunResponse(run database.Run) runResponse {
	response := runResponse{Run: run}
	if run.FinishedAt != nil {
		response.Duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
	}
	return response
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
