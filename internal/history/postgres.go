package history

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Save(ctx context.Context, rec Record) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO resolutions (id,kind,content_id,title,queries,streams,duration_ms,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.Kind, rec.ContentID, rec.Title, rec.Queries, rec.Streams, rec.Duration.Milliseconds(), rec.CreatedAt,
	)
	return err
}

func (p *Postgres) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id::text,kind,content_id,title,queries,streams,duration_ms,created_at
		FROM resolutions ORDER BY created_at DESC LIMIT $1`, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		var ms int64
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.ContentID, &rec.Title, &rec.Queries, &rec.Streams, &ms, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}
