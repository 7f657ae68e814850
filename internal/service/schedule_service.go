package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"logview-backend/internal/dto"
	"logview-backend/internal/model"
	"logview-backend/internal/repository"
	"logview-backend/internal/schedule"
	"logview-backend/internal/scheduler"
)

// ErrBadScheduleRequest marks an update carrying both or neither descriptor
// variant.
var ErrBadScheduleRequest = errors.New("schedule update must carry a crontab or an interval, not both")

type ScheduleService interface {
	Update(ctx context.Context, taskID string, req dto.ScheduleUpdateRequest) (*dto.ScheduleResponse, error)
	List(ctx context.Context) ([]dto.ScheduleResponse, error)
}

type scheduleService struct {
	taskRepo repository.TaskRepository
	sched    *scheduler.Scheduler
}

func NewScheduleService(taskRepo repository.TaskRepository, sched *scheduler.Scheduler) ScheduleService {
	return &scheduleService{
		taskRepo: taskRepo,
		sched:    sched,
	}
}

// Update validates the new descriptor, persists it, and re-registers the
// task in the live scheduler. Malformed cron expressions surface as
// schedule.ErrInvalidExpression so callers can render the fixed indicator.
func (s *scheduleService) Update(ctx context.Context, taskID string, req dto.ScheduleUpdateRequest) (*dto.ScheduleResponse, error) {
	var descriptor model.ScheduleDescriptor
	switch {
	case req.Crontab != nil && req.HasInterval():
		return nil, ErrBadScheduleRequest
	case req.Crontab != nil:
		descriptor = model.ScheduleDescriptor{Crontab: *req.Crontab}
	case req.HasInterval():
		descriptor = model.ScheduleDescriptor{IntervalSeconds: req.IntervalSeconds()}
	default:
		return nil, ErrBadScheduleRequest
	}

	if err := schedule.Validate(descriptor); err != nil {
		return nil, err
	}

	now := time.Now()
	nextRun, err := schedule.NextRun(descriptor, now)
	if err != nil {
		return nil, err
	}

	task := model.Task{
		ID:       taskID,
		Schedule: descriptor,
		NextRun:  nextRun,
	}
	if existing, err := s.taskRepo.Get(ctx, taskID); err == nil {
		task.LastRun = existing.LastRun
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to persist task schedule: %w", err)
	}
	if err := s.sched.Schedule(task); err != nil {
		return nil, fmt.Errorf("failed to register task schedule: %w", err)
	}

	log.Info().Str("task_id", taskID).Interface("schedule", descriptor).Msg("Updated task schedule")
	return s.response(task, now), nil
}

func (s *scheduleService) List(ctx context.Context) ([]dto.ScheduleResponse, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	responses := make([]dto.ScheduleResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, *s.response(task, now))
	}
	return responses, nil
}

func (s *scheduleService) response(task model.Task, now time.Time) *dto.ScheduleResponse {
	description, err := schedule.Describe(task.Schedule)
	if err != nil {
		description = "Invalid Expression"
	}

	nextRun := s.sched.NextRun(task.ID)
	if nextRun.IsZero() {
		nextRun = task.NextRun
	}

	resp := &dto.ScheduleResponse{
		TaskID:      task.ID,
		Description: description,
	}
	if !nextRun.IsZero() {
		resp.NextRun = nextRun.UTC().Format(model.WireTimeLayout)
		resp.Countdown = schedule.FormatCountdown(nextRun, now)
	}
	return resp
}
