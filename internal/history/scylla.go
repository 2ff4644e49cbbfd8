package history

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

// scanDays bounds how far back Recent walks day partitions.
const scanDays = 30

type Scylla struct {
	session  *gocql.Session
	keyspace string
	now      func() time.Time
}

func NewScylla(session *gocql.Session, keyspace string) *Scylla {
	return &Scylla{session: session, keyspace: keyspace, now: time.Now}
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func (s *Scylla) Save(ctx context.Context, rec Record) error {
	id, err := gocql.ParseUUID(rec.ID)
	if err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	return s.session.Query(fmt.Sprintf(`INSERT INTO %s.resolutions (day,created_at,id,kind,content_id,title,queries,streams,duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?)`, s.keyspace),
		dayKey(rec.CreatedAt), rec.CreatedAt, id, rec.Kind, rec.ContentID, rec.Title, rec.Queries, rec.Streams, rec.Duration.Milliseconds(),
	).WithContext(ctx).Exec()
}

func (s *Scylla) Recent(ctx context.Context, limit int) ([]Record, error) {
	limit = ClampLimit(limit)
	out := []Record{}
	day := s.now()
	for i := 0; i < scanDays && len(out) < limit; i++ {
		iter := s.session.Query(fmt.Sprintf(`SELECT id,kind,content_id,title,queries,streams,duration_ms,created_at
			FROM %s.resolutions WHERE day=? LIMIT ?`, s.keyspace), dayKey(day), limit-len(out)).
			WithContext(ctx).Iter()
		var (
			id  gocql.UUID
			rec Record
			ms  int64
		)
		for iter.Scan(&id, &rec.Kind, &rec.ContentID, &rec.Title, &rec.Queries, &rec.Streams, &ms, &rec.CreatedAt) {
			rec.ID = id.String()
			rec.Duration = time.Duration(ms) * time.Millisecond
			out = append(out, rec)
		}
		if err := iter.Close(); err != nil {
			return nil, err
		}
		day = day.AddDate(0, 0, -1)
	}
	return out, nil
}
