package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"logview-backend/internal/model"
	"logview-backend/internal/repository"
)

// ErrTaskNotFound marks a lookup for an unknown task id.
var ErrTaskNotFound = errors.New("task not found")

type taskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	querySQL := fmt.Sprintf(
		`SELECT id, crontab, interval_seconds, last_run, next_run FROM %s WHERE id = $1;`,
		tasksTable)

	task, err := scanTask(r.pool.QueryRow(ctx, querySQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		log.Error().Err(err).Str("task_id", id).Msg("Failed to load task")
		return nil, fmt.Errorf("postgres query failed: %w", err)
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]model.Task, error) {
	querySQL := fmt.Sprintf(
		`SELECT id, crontab, interval_seconds, last_run, next_run FROM %s ORDER BY id;`,
		tasksTable)
	rows, err := r.pool.Query(ctx, querySQL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tasks")
		return nil, fmt.Errorf("postgres query failed: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres scan failed: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Save(ctx context.Context, task model.Task) error {
	upsertSQL := fmt.Sprintf(`
		INSERT INTO %s (id, crontab, interval_seconds, last_run, next_run)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			crontab = EXCLUDED.crontab,
			interval_seconds = EXCLUDED.interval_seconds,
			last_run = EXCLUDED.last_run,
			next_run = EXCLUDED.next_run;`, tasksTable)

	_, err := r.pool.Exec(ctx, upsertSQL,
		task.ID,
		task.Schedule.Crontab,
		task.Schedule.IntervalSeconds,
		nullableTime(task.LastRun),
		nullableTime(task.NextRun))
	if err != nil {
		log.Error().Err(err).Str("task_id", task.ID).Msg("Failed to save task")
		return fmt.Errorf("postgres exec failed: %w", err)
	}
	log.Debug().Str("task_id", task.ID).Msg("Saved task schedule")
	return nil
}

func scanTask(row pgx.Row) (*model.Task, error) {
	var task model.Task
	var lastRun, nextRun sql.NullTime
	if err := row.Scan(&task.ID, &task.Schedule.Crontab, &task.Schedule.IntervalSeconds, &lastRun, &nextRun); err != nil {
		return nil, err
	}
	if lastRun.Valid {
		task.LastRun = lastRun.Time
	}
	if nextRun.Valid {
		task.NextRun = nextRun.Time
	}
	return &task, nil
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
