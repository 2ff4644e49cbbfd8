package history

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"knaben/internal/config"
	"knaben/internal/db"
	pgdb "knaben/pkg/db"
)

// Open builds the configured store. The returned close func releases its
// connections and is safe to call on every path.
func Open(ctx context.Context, cfg config.HistoryConfig, log zerolog.Logger) (Store, func(), error) {
	switch cfg.Backend {
	case config.HistoryPostgres:
		pool, err := pgdb.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.EnsurePostgresSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, func() {}, fmt.Errorf("postgres schema: %w", err)
		}
		log.Info().Msg("history stored in postgres")
		return NewPostgres(pool), pool.Close, nil
	case config.HistoryScylla:
		session, err := db.ConnectScylla(ctx, cfg, log)
		if err != nil {
			return nil, func() {}, err
		}
		log.Info().Strs("hosts", cfg.ScyllaHosts).Str("keyspace", cfg.Keyspace).Msg("history stored in scylla")
		return NewScylla(session, cfg.Keyspace), session.Close, nil
	default:
		return Nop{}, func() {}, nil
	}
}
