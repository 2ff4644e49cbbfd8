package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Record summarises one finished resolution.
type Record struct {
	ID        string        `json:"id"`
	Kind      string        `json:"type"`
	ContentID string        `json:"content_id"`
	Title     string        `json:"title"`
	Queries   int           `json:"queries"`
	Streams   int           `json:"streams"`
	Duration  time.Duration `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

// Store persists records. Resolutions only ever write to it.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}

func NewRecord(kind, contentID, title string, queries, streams int, took time.Duration) Record {
	return Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		ContentID: contentID,
		Title:     title,
		Queries:   queries,
		Streams:   streams,
		Duration:  took,
		CreatedAt: time.Now().UTC(),
	}
}

// ClampLimit maps a requested page size into [1, MaxLimit], using
// DefaultLimit for anything non-positive.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Nop drops every record.
type Nop struct{}

func (Nop) Save(context.Context, Record) error { return nil }

func (Nop) Recent(context.Context, int) ([]Record, error) { return []Record{}, nil }
