// Package postgres holds the relational stores: scheduled-task descriptors
// and internal-error summaries.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"logview-backend/config"
)

const (
	tasksTable  = "scheduled_tasks"
	errorsTable = "internal_errors"
)

// ProvidePool creates and verifies the shared connection pool and ensures
// the schema exists.
func ProvidePool(lc fx.Lifecycle, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse Postgres DSN")
		return nil, fmt.Errorf("invalid Postgres DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Error().Err(err).Msg("Unable to create Postgres connection pool")
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ping Postgres")
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}
	log.Info().Msg("Postgres connection pool created and verified.")

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSetup()
	if err := ensureSchema(setupCtx, pool); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ensure Postgres schema")
		return nil, fmt.Errorf("failed ensuring schema: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Postgres connection pool...")
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	createTasks := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			crontab TEXT NOT NULL DEFAULT '',
			interval_seconds INTEGER NOT NULL DEFAULT 0,
			last_run TIMESTAMPTZ,
			next_run TIMESTAMPTZ
		);`, tasksTable)
	if _, err := pool.Exec(ctx, createTasks); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tasksTable, err)
	}

	createErrors := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			time TIMESTAMPTZ NOT NULL,
			context_id TEXT NOT NULL,
			file TEXT NOT NULL
		);`, errorsTable)
	if _, err := pool.Exec(ctx, createErrors); err != nil {
		return fmt.Errorf("failed to create table %s: %w", errorsTable, err)
	}

	indexSQL := fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS idx_%s_time ON %s (time DESC);`,
		errorsTable, errorsTable)
	if _, err := pool.Exec(ctx, indexSQL); err != nil {
		log.Warn().Err(err).Msg("Failed to create index on internal errors table (continuing)")
	}

	log.Info().Msg("Ensured Postgres schema exists.")
	return nil
}
