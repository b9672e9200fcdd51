package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/lysyi3m/roadmap-sync/app/database"
	"github.com/lysyi3m/roadmap-sync/app/progress"
	"github.com/lysyi3m/roadmap-sync/app/render"
	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

// ActivityLogTask rebuilds the activity log from the generated initiative
// pages, re-fetching each issue for fresh timestamps and children.
type ActivityLogTask struct {
	Task
	config   *roadmap.Config
	source   IssueSource
	pagesDir string
	tables   *render.TableGenerator
	feed     *render.FeedGenerator
	docsDir  string
	history  database.RunRepository
	reporter progress.Reporter

	Rows []render.ActivityRow
}

func NewActivityLogTask(config *roadmap.Config, source IssueSource, docsDir string, tables *render.TableGenerator, feed *render.FeedGenerator, history database.RunRepository, reporter progress.Reporter) *ActivityLogTask {
	if reporter == nil {
		reporter = &progress.LogReporter{}
	}

	return &ActivityLogTask{
		Task:     NewTask(TaskTypeActivityLog),
		config:   config,
		source:   source,
		pagesDir: filepath.Join(docsDir, render.InitiativeDir),
		tables:   tables,
		feed:     feed,
		docsDir:  docsDir,
		history:  history,
		reporter: reporter,
	}
}

func (t *ActivityLogTask) Execute(ctx context.Context) (err error) {
	if err := t.source.Verify(ctx); err != nil {
		return fmt.Errorf("GitHub client not ready: %w", err)
	}

	run := startRun(t.history, database.RunKindActivityLog)
	result := &SyncResult{}
	defer func() {
		finishRun(t.history, run, result, err)
	}()

	pages, err := filepath.Glob(filepath.Join(t.pagesDir, "*.md"))
	if err != nil {
		return fmt.Errorf("failed to list initiative pages: %w", err)
	}
	sort.Strings(pages)
	result.Total = len(pages)

	sources, skipped, err := t.collect(ctx, pages)
	if err != nil {
		return err
	}
	result.Skipped = skipped
	result.Candidates = len(sources)

	if len(sources) == 0 {
		slog.Info("No initiatives found. Run sync first", "dir", t.pagesDir)
		return nil
	}

	t.Rows = render.ActivityRows(sources)

	path, err := t.tables.WriteActivityLog(t.Rows)
	if err != nil {
		return err
	}
	slog.Info("Generated activity log", "path", path, "initiatives", len(sources), "rows", len(t.Rows))

	if t.feed != nil {
		feedPath, err := t.feed.Write(t.docsDir, t.Rows)
		if err != nil {
			return err
		}
		slog.Info("Generated activity feed", "path", feedPath)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"pages", len(pages),
		"initiatives", len(sources),
		"rows", len(t.Rows),
		"skipped", skipped)

	return nil
}

func (t *ActivityLogTask) collect(ctx context.Context, pages []string) ([]render.ActivitySource, int, error) {
	sources := make([]render.ActivitySource, 0, len(pages))
	skipped := 0

	t.reporter.Start(len(pages), "Fetching activity")
	defer t.reporter.Done()

	for _, path := range pages {
		select {
		case <-ctx.Done():
			return nil, skipped, ctx.Err()
		default:
		}

		name := filepath.Base(path)
		t.reporter.Advance(name)

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, skipped, fmt.Errorf("failed to read %s: %w", path, err)
		}

		meta, err := render.ParseFrontMatter(content)
		if errors.Is(err, render.ErrNoFrontMatter) {
			slog.Warn("Page has no front-matter, skipping", "page", name)
			skipped++
			continue
		}

		repo, number, err := t.issueIdentity(meta)
		if err != nil {
			slog.Warn("Page has no usable issue reference, skipping", "page", name, "error", err)
			skipped++
			continue
		}
		meta.Repo = repo
		meta.IssueNumber = number

		issue, err := t.source.FetchIssue(ctx, repo, number)
		if err != nil {
			slog.Warn("Failed to fetch issue, skipping", "repo", repo, "number", number, "error", err)
			skipped++
			continue
		}
		if meta.IssueURL == "" {
			meta.IssueURL = issue.URL
		}

		sources = append(sources, render.ActivitySource{
			FrontMatter: meta,
			LocalLink:   render.InitiativeDir + "/" + name,
			Issue:       issue,
		})
	}

	return sources, skipped, nil
}

// issueIdentity prefers the issue URL and falls back to the repo and number
// keys; pages without a repo use the configured default repository.
func (t *ActivityLogTask) issueIdentity(meta render.FrontMatter) (string, int, error) {
	if meta.IssueURL != "" {
		return render.ParseIssueURL(meta.IssueURL)
	}
	if meta.IssueNumber <= 0 {
		return "", 0, errors.New("missing issue_url")
	}

	repo := meta.Repo
	if repo == "" {
		repo = t.config.DefaultRepo
	}
	return repo, meta.IssueNumber, nil
}

func (t *ActivityLogTask) Summary() progress.Summary {
	summary := progress.Summary{Title: "Activity log complete!"}

	initiatives := 0
	for _, row := range t.Rows {
		if row.Type == render.ActivityInitiative {
			initiatives++
		}
	}

	return summary.
		Add("initiatives", initiatives).
		Add("rows", len(t.Rows))
}
