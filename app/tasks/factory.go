package tasks

import (
	"github.com/lysyi3m/roadmap-sync/app/database"
	"github.com/lysyi3m/roadmap-sync/app/progress"
	"github.com/lysyi3m/roadmap-sync/app/render"
	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

// Factory holds the dependencies shared by every task run.
type Factory struct {
	Config  *roadmap.Config
	Source  IssueSource
	Pages   *render.PageRenderer
	Tables  *render.TableGenerator
	Feed    *render.FeedGenerator
	DocsDir string
	History database.RunRepository
}

func (f *Factory) NewSyncRoadmapTask(reporter progress.Reporter) *SyncRoadmapTask {
	return NewSyncRoadmapTask(f.Config, f.Source, f.Pages, f.Tables, f.History, reporter)
}

func (f *Factory) NewActivityLogTask(reporter progress.Reporter) *ActivityLogTask {
	return NewActivityLogTask(f.Config, f.Source, f.DocsDir, f.Tables, f.Feed, f.History, reporter)
}
