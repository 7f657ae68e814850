package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"logview-backend/internal/model"
	"logview-backend/internal/repository"
)

type errorRepository struct {
	pool *pgxpool.Pool
}

func NewErrorRepository(pool *pgxpool.Pool) repository.ErrorRepository {
	return &errorRepository{pool: pool}
}

// Record bulk-inserts error summaries with CopyFrom.
func (r *errorRepository) Record(ctx context.Context, summaries []model.ErrorSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	source := pgx.CopyFromSlice(len(summaries), func(i int) ([]interface{}, error) {
		s := summaries[i]
		return []interface{}{s.Time, s.ContextID, s.File}, nil
	})

	copied, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{errorsTable},
		[]string{"time", "context_id", "file"},
		source)
	if err != nil {
		log.Error().Err(err).Msg("Failed to bulk insert internal error summaries")
		return fmt.Errorf("postgres copyfrom failed: %w", err)
	}
	if int(copied) != len(summaries) {
		log.Warn().Int64("inserted", copied).Int("expected", len(summaries)).Msg("Internal error CopyFrom count mismatch")
	} else {
		log.Debug().Int64("count", copied).Msg("Recorded internal error summaries")
	}
	return nil
}

func (r *errorRepository) Recent(ctx context.Context, limit int) ([]model.ErrorSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	querySQL := fmt.Sprintf(
		`SELECT time, context_id, file FROM %s ORDER BY time DESC LIMIT $1;`,
		errorsTable)
	rows, err := r.pool.Query(ctx, querySQL, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query internal error summaries")
		return nil, fmt.Errorf("postgres query failed: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.ErrorSummary, 0, limit)
	for rows.Next() {
		var s model.ErrorSummary
		if err := rows.Scan(&s.Time, &s.ContextID, &s.File); err != nil {
			return nil, fmt.Errorf("postgres scan failed: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
