package metadata

import (
	"context"
	"errors"
)

// ErrNotFound means the catalog id (or the requested episode) is unknown.
var ErrNotFound = errors.New("metadata not found")

// Episode describes one episode of a series. Released is free text whose
// prefix is usually an ISO date.
type Episode struct {
	ShowName string
	Title    string
	Released string
}

type Movie struct {
	Title    string
	Released string
}

// Lookup resolves catalog ids to titles and release dates.
type Lookup interface {
	Episode(ctx context.Context, imdbID string, season, episode int) (Episode, error)
	Movie(ctx context.Context, imdbID string) (Movie, error)
}

// Chain asks each lookup in order and returns the first answer.
type Chain []Lookup

func (c Chain) Episode(ctx context.Context, imdbID string, season, episode int) (Episode, error) {
	var lastErr error = ErrNotFound
	for _, l := range c {
		ep, err := l.Episode(ctx, imdbID, season, episode)
		if err == nil {
			return ep, nil
		}
		if ctx.Err() != nil {
			return Episode{}, ctx.Err()
		}
		lastErr = err
	}
	return Episode{}, lastErr
}

func (c Chain) Movie(ctx context.Context, imdbID string) (Movie, error) {
	var lastErr error = ErrNotFound
	for _, l := range c {
		m, err := l.Movie(ctx, imdbID)
		if err == nil {
			return m, nil
		}
		if ctx.Err() != nil {
			return Movie{}, ctx.Err()
		}
		lastErr = err
	}
	return Movie{}, lastErr
}
