package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	queueSize   = 16
	taskTimeout = 10 * time.Minute
)

// Scheduler runs queued tasks on a single worker, so two syncs never write
// the docs tree at once. Failed tasks are logged and not retried.
type Scheduler struct {
	factory   *Factory
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

// NewScheduler creates a scheduler that enqueues a sync followed by an
// activity log every interval. A zero interval disables periodic runs.
func NewScheduler(factory *Factory, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		factory:   factory,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	if s.interval <= 0 {
		slog.Debug("Periodic sync disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueSync()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueSync()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueSync queues a sync and the activity log that depends on its pages.
func (s *Scheduler) EnqueueSync() ([]string, error) {
	syncTask := s.factory.NewSyncRoadmapTask(nil)
	if err := s.EnqueueTask(syncTask); err != nil {
		return nil, err
	}

	activityTask := s.factory.NewActivityLogTask(nil)
	if err := s.EnqueueTask(activityTask); err != nil {
		return []string{syncTask.GetID()}, err
	}

	return []string{syncTask.GetID(), activityTask.GetID()}, nil
}

func (s *Scheduler) enqueueSync() {
	if _, err := s.EnqueueSync(); err != nil {
		slog.Warn("Failed to enqueue sync", "error", err)
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(task)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "duration", task.GetDuration(), "error", err)
	}
}
