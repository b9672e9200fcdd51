package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/roadmap-sync/app/database"
	"github.com/lysyi3m/roadmap-sync/app/progress"
	"github.com/lysyi3m/roadmap-sync/app/render"
	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

// SyncResult holds the counters and output of a finished sync.
type SyncResult struct {
	Total       int
	InColumns   int
	Candidates  int
	Skipped     int
	Initiatives []*roadmap.Initiative
	Buckets     roadmap.Buckets
}

type SyncRoadmapTask struct {
	Task
	config   *roadmap.Config
	source   IssueSource
	filterer *roadmap.Filterer
	pages    *render.PageRenderer
	tables   *render.TableGenerator
	history  database.RunRepository
	reporter progress.Reporter

	Result *SyncResult
}

// NewSyncRoadmapTask builds a sync run. history and reporter may be nil.
func NewSyncRoadmapTask(config *roadmap.Config, source IssueSource, pages *render.PageRenderer, tables *render.TableGenerator, history database.RunRepository, reporter progress.Reporter) *SyncRoadmapTask {
	if reporter == nil {
		reporter = &progress.LogReporter{}
	}

	return &SyncRoadmapTask{
		Task:     NewTask(TaskTypeSyncRoadmap),
		config:   config,
		source:   source,
		filterer: roadmap.NewFilterer(config),
		pages:    pages,
		tables:   tables,
		history:  history,
		reporter: reporter,
	}
}

func (t *SyncRoadmapTask) Execute(ctx context.Context) (err error) {
	if err := t.source.Verify(ctx); err != nil {
		return fmt.Errorf("GitHub client not ready: %w", err)
	}

	result := &SyncResult{}
	run := startRun(t.history, database.RunKindSync)
	defer func() {
		finishRun(t.history, run, result, err)
	}()

	items := t.source.FetchProjectItems(ctx, t.config.Organization, t.config.ProjectNumber)
	result.Total = len(items)
	slog.Info("Fetched project items", "org", t.config.Organization, "project", t.config.ProjectNumber, "count", len(items))

	inColumns := t.filterer.FilterByStatus(items)
	result.InColumns = len(inColumns)
	slog.Info("Filtered by roadmap status", "count", len(inColumns))

	candidates := inColumns
	if t.config.Prefilter() {
		candidates = t.filterer.PrefilterByTitle(inColumns)
		slog.Info("Pre-filtered by title", "count", len(candidates))
	}
	result.Candidates = len(candidates)

	initiatives, skipped, err := t.fetchInitiatives(ctx, candidates)
	if err != nil {
		return err
	}
	result.Initiatives = initiatives
	result.Skipped = skipped
	result.Buckets = roadmap.GroupByStatus(initiatives, t.config)

	if err := t.writeOutputs(result); err != nil {
		return err
	}

	if run != nil {
		if err := t.history.AddInitiatives(run.ID, snapshot(initiatives)); err != nil {
			slog.Warn("Failed to record initiatives", "run_id", run.ID, "error", err)
		}
	}

	t.Result = result

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"in_flight", len(result.Buckets.InFlight),
		"upcoming", len(result.Buckets.Upcoming),
		"done", len(result.Buckets.Done),
		"skipped", result.Skipped)

	return nil
}

// fetchInitiatives loads details for each candidate, one at a time. Items
// that cannot be fetched are logged and skipped.
func (t *SyncRoadmapTask) fetchInitiatives(ctx context.Context, candidates []roadmap.BoardItem) ([]*roadmap.Initiative, int, error) {
	initiatives := make([]*roadmap.Initiative, 0, len(candidates))
	skipped := 0

	t.reporter.Start(len(candidates), "Fetching issues")
	defer t.reporter.Done()

	for _, item := range candidates {
		select {
		case <-ctx.Done():
			return nil, skipped, ctx.Err()
		default:
		}

		if item.Repo == "" {
			item.Repo = t.config.DefaultRepo
		}
		t.reporter.Advance(fmt.Sprintf("%s#%d", item.Repo, item.Number))

		issue, err := t.source.FetchIssue(ctx, item.Repo, item.Number)
		if err != nil {
			slog.Warn("Failed to fetch issue, skipping", "repo", item.Repo, "number", item.Number, "error", err)
			skipped++
			continue
		}

		if roadmap.ShouldSkip(issue, t.config) {
			slog.Info("Skipping issue", "repo", item.Repo, "number", item.Number, "state_reason", issue.StateReason)
			skipped++
			continue
		}

		if !t.filterer.IsInitiative(issue.Title, issue.Labels) {
			slog.Debug("Not an initiative", "repo", item.Repo, "number", item.Number, "title", issue.Title)
			continue
		}

		initiatives = append(initiatives, roadmap.NewInitiative(item, issue, t.config))
	}

	return initiatives, skipped, nil
}

func (t *SyncRoadmapTask) writeOutputs(result *SyncResult) error {
	removed, err := t.pages.Purge()
	if err != nil {
		return err
	}
	slog.Debug("Removed old initiative pages", "count", removed)

	for _, initiative := range result.Initiatives {
		if _, err := t.pages.Render(initiative); err != nil {
			return err
		}
	}
	slog.Info("Generated initiative pages", "count", len(result.Initiatives), "dir", t.pages.OutputDir())

	path, err := t.tables.WriteRoadmapTable(result.Buckets.InFlight, result.Buckets.Upcoming)
	if err != nil {
		return err
	}
	slog.Info("Generated roadmap table", "path", path)

	path, err = t.tables.WriteCompletedTable(result.Buckets.Done)
	if err != nil {
		return err
	}
	slog.Info("Generated completed table", "path", path)

	return nil
}

// Summary describes the result for the terminal.
func (t *SyncRoadmapTask) Summary() progress.Summary {
	summary := progress.Summary{Title: "Sync complete!"}
	if t.Result == nil {
		return summary
	}
	return summary.
		Add("initiatives in flight", len(t.Result.Buckets.InFlight)).
		Add("upcoming initiatives", len(t.Result.Buckets.Upcoming)).
		Add("completed initiatives", len(t.Result.Buckets.Done)).
		Add("skipped issues", t.Result.Skipped)
}

func snapshot(initiatives []*roadmap.Initiative) []database.RunInitiative {
	rows := make([]database.RunInitiative, 0, len(initiatives))
	for _, i := range initiatives {
		rows = append(rows, database.RunInitiative{
			Repo:      i.Repo,
			Number:    i.Number,
			Title:     i.DisplayTitle,
			Status:    i.Status,
			Filename:  i.Filename,
			IssueURL:  i.URL,
			State:     i.State,
			UpdatedAt: i.UpdatedAt,
			ClosedAt:  i.ClosedAt,
		})
	}
	return rows
}
