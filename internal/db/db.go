package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog"

	"knaben/internal/config"
)

const (
	connectAttempts  = 20
	connectBackoff   = 5 * time.Second
	keyspaceAttempts = 10
	keyspaceBackoff  = 3 * time.Second
)

// ConnectScylla opens a session on the history keyspace, creating the
// keyspace and tables first. Scylla is often still booting when the addon
// starts, so every step is retried until ctx ends.
func ConnectScylla(ctx context.Context, cfg config.HistoryConfig, log zerolog.Logger) (*gocql.Session, error) {
	var lastErr error
	for i := 0; i < connectAttempts; i++ {
		session, err := connectScylla(ctx, cfg, log)
		if err == nil {
			if err = EnsureSchema(session, cfg.Keyspace); err == nil {
				return session, nil
			}
			session.Close()
		}
		lastErr = err
		log.Warn().Err(err).Msgf("scylla connect retry %d/%d", i+1, connectAttempts)
		if !sleep(ctx, connectBackoff) {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("scylla not ready after retries: %w", lastErr)
}

func connectScylla(ctx context.Context, cfg config.HistoryConfig, log zerolog.Logger) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.ScyllaHosts...)
	cluster.Port = cfg.ScyllaPort
	cluster.Timeout = 5 * time.Second
	cluster.Consistency = ParseConsistency(cfg.Consistency)

	tmpSession, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}
	defer tmpSession.Close()

	created := false
	for i := 0; i < keyspaceAttempts; i++ {
		if err := EnsureKeyspace(tmpSession, cfg.Keyspace, cfg.Replication); err != nil {
			log.Warn().Err(err).Msgf("ensure keyspace retry %d/%d", i+1, keyspaceAttempts)
			if !sleep(ctx, keyspaceBackoff) {
				return nil, ctx.Err()
			}
			continue
		}
		created = true
		break
	}
	if !created {
		return nil, fmt.Errorf("unable to ensure keyspace %s", cfg.Keyspace)
	}

	cluster.Keyspace = cfg.Keyspace
	return cluster.CreateSession()
}

func EnsureKeyspace(session *gocql.Session, keyspace string, replicationFactor int) error {
	if replicationFactor <= 0 {
		replicationFactor = 3
	}
	stmt := fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}", keyspace, replicationFactor)
	return session.Query(stmt).Exec()
}

// EnsureSchema creates the resolutions table. Rows are partitioned by UTC
// day so recent history is read newest partition first.
func EnsureSchema(session *gocql.Session, keyspace string) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.resolutions (
			day text,
			created_at timestamp,
			id uuid,
			kind text,
			content_id text,
			title text,
			queries int,
			streams int,
			duration_ms bigint,
			PRIMARY KEY ((day), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`, keyspace),
	}
	for _, stmt := range stmts {
		if err := session.Query(stmt).Exec(); err != nil {
			return err
		}
	}
	return nil
}

func ParseConsistency(c string) gocql.Consistency {
	switch strings.ToUpper(c) {
	case "ONE":
		return gocql.One
	case "LOCAL_ONE":
		return gocql.LocalOne
	case "LOCAL_QUORUM":
		return gocql.LocalQuorum
	case "ALL":
		return gocql.All
	default:
		return gocql.Quorum
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
