package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS resolutions (
		id uuid PRIMARY KEY,
		kind text NOT NULL,
		content_id text NOT NULL,
		title text NOT NULL DEFAULT '',
		queries int NOT NULL DEFAULT 0,
		streams int NOT NULL DEFAULT 0,
		duration_ms bigint NOT NULL DEFAULT 0,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS resolutions_created_at_idx ON resolutions (created_at DESC)`,
}

// EnsurePostgresSchema creates the resolutions table if it is missing.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
