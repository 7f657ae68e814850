package repository

import (
	"context"

	"logview-backend/internal/dto"
	"logview-backend/internal/model"
)

// LogRepository answers filtered, paginated log queries. Result order is
// storage-defined (reverse-chronological); callers never re-sort.
type LogRepository interface {
	Query(ctx context.Context, q dto.LogQuery) (*dto.LogPage, error)
}

// ErrorRepository persists and lists internal-error summaries.
type ErrorRepository interface {
	Record(ctx context.Context, summaries []model.ErrorSummary) error
	Recent(ctx context.Context, limit int) ([]model.ErrorSummary, error)
}

// TaskRepository persists scheduled-task descriptors.
type TaskRepository interface {
	Get(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, task model.Task) error
}
