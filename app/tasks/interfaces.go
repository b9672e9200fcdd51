package tasks

import (
	"context"

	"github.com/lysyi3m/roadmap-sync/app/roadmap"
)

// TaskSchedulerInterface runs tasks in the background for the preview server.
//
//	scheduler := NewScheduler(factory, interval)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueSync()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueSync() ([]string, error)
}

// IssueSource reads the board and issue details. Implemented by
// github.Client.
type IssueSource interface {
	Verify(ctx context.Context) error
	FetchProjectItems(ctx context.Context, org string, number int) []roadmap.BoardItem
	FetchIssue(ctx context.Context, repo string, number int) (*roadmap.Issue, error)
}
