package model

import (
	"errors"
	"time"
)

// ScheduleDescriptor is a tagged union: exactly one of Crontab or
// IntervalSeconds is populated per scheduled task.
type ScheduleDescriptor struct {
	Crontab         string `json:"crontab,omitempty"`
	IntervalSeconds int    `json:"interval_seconds,omitempty"`
}

// IsCron reports whether the cron variant is populated.
func (d ScheduleDescriptor) IsCron() bool {
	return d.Crontab != ""
}

// CheckShape verifies that exactly one variant of the union is set. Syntax of
// the cron expression itself is validated by the schedule package.
func (d ScheduleDescriptor) CheckShape() error {
	if d.Crontab != "" && d.IntervalSeconds != 0 {
		return errors.New("schedule descriptor has both crontab and interval set")
	}
	if d.Crontab == "" && d.IntervalSeconds <= 0 {
		return errors.New("schedule descriptor has neither crontab nor a positive interval")
	}
	return nil
}

// Task is a named background job with a mutable schedule.
type Task struct {
	ID       string             `json:"id"`
	Schedule ScheduleDescriptor `json:"schedule"`
	LastRun  time.Time          `json:"last_run,omitempty"`
	NextRun  time.Time          `json:"next_run,omitempty"`
}

// ErrorSummary is a compact record of an internal error, persisted for the
// /api/logs/errors listing.
type ErrorSummary struct {
	Time      time.Time `json:"time"`
	ContextID string    `json:"context_id"`
	File      string    `json:"file"`
}

// Toast is a transient notification pushed to connected UI clients.
type Toast struct {
	Style     string   `json:"style"` // "info" or "error"
	Level     Level    `json:"level"`
	Message   string   `json:"message"`
	ContextID string   `json:"context_id,omitempty"`
	Time      WireTime `json:"time"`
}
