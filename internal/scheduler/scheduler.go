// Package scheduler owns the cron runner: the ingest sweep plus every
// persisted task, with live rescheduling when a task's descriptor changes.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"logview-backend/internal/model"
	"logview-backend/internal/schedule"
)

// TaskFunc is the work a registered task performs when its schedule fires.
type TaskFunc func(ctx context.Context) error

// Scheduler wraps a cron runner with a task registry keyed by task id.
type Scheduler struct {
	c       *cron.Cron
	mu      sync.Mutex
	entries map[string]cron.EntryID
	runners map[string]TaskFunc
}

func New(lc fx.Lifecycle) *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	s := &Scheduler{
		c:       cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
		runners: make(map[string]TaskFunc),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			s.c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := s.c.Stop()
			select {
			case <-stopCtx.Done():
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})

	return s
}

// RegisterRunner binds a task id to its work. Tasks without a runner still
// schedule, but firing only logs a warning.
func (s *Scheduler) RegisterRunner(taskID string, fn TaskFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runners[taskID] = fn
}

// Schedule (re-)registers a task under its current descriptor, replacing any
// previous entry.
func (s *Scheduler) Schedule(task model.Task) error {
	spec, err := cronSpec(task.Schedule)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[task.ID]; ok {
		s.c.Remove(existing)
		delete(s.entries, task.ID)
	}

	taskID := task.ID
	entryID, err := s.c.AddFunc(spec, func() {
		s.runTask(taskID)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule task %s: %w", task.ID, err)
	}
	s.entries[task.ID] = entryID
	log.Info().Str("task_id", task.ID).Str("spec", spec).Msg("Scheduled task")
	return nil
}

// NextRun reports when a scheduled task fires next; zero if unknown.
func (s *Scheduler) NextRun(taskID string) time.Time {
	s.mu.Lock()
	entryID, ok := s.entries[taskID]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.c.Entry(entryID).Next
}

func (s *Scheduler) runTask(taskID string) {
	s.mu.Lock()
	fn := s.runners[taskID]
	s.mu.Unlock()

	if fn == nil {
		log.Warn().Str("task_id", taskID).Msg("Task fired with no registered runner")
		return
	}
	go func() {
		if err := fn(context.Background()); err != nil {
			log.Error().Err(err).Str("task_id", taskID).Msg("Scheduled task failed")
		}
	}()
}

// cronSpec maps either descriptor variant onto a robfig spec: the crontab
// verbatim, or "@every" for intervals.
func cronSpec(d model.ScheduleDescriptor) (string, error) {
	if err := schedule.Validate(d); err != nil {
		return "", err
	}
	if d.IsCron() {
		return d.Crontab, nil
	}
	return fmt.Sprintf("@every %ds", d.IntervalSeconds), nil
}
