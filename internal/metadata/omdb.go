package metadata

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/omdb"
	"github.com/rs/zerolog"
)

// OMDb answers lookups from the Open Movie Database. It is used as a
// fallback behind Cinemeta when an API key is configured.
type OMDb struct {
	client *omdb.Client
	log    zerolog.Logger
}

func NewOMDb(apiKey string, httpClient *http.Client, log zerolog.Logger) *OMDb {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OMDb{
		client: omdb.NewClient(apiKey, httpClient),
		log:    log.With().Str("component", "omdb").Logger(),
	}
}

func (o *OMDb) Episode(ctx context.Context, imdbID string, season, episode int) (Episode, error) {
	if err := ctx.Err(); err != nil {
		return Episode{}, err
	}
	result, err := o.client.SearchByImdbID(omdb.QueryData{
		ImdbID:  imdbID,
		Season:  strconv.Itoa(season),
		Episode: strconv.Itoa(episode),
	})
	if err != nil {
		o.log.Debug().Err(err).Str("id", imdbID).Msg("episode lookup failed")
		return Episode{}, ErrNotFound
	}

	var ep *omdb.EpisodeResult
	switch v := result.(type) {
	case omdb.EpisodeResult:
		ep = &v
	case *omdb.EpisodeResult:
		ep = v
	default:
		return Episode{}, ErrNotFound
	}

	show, err := o.seriesTitle(ctx, imdbID)
	if err != nil {
		return Episode{}, err
	}
	return Episode{ShowName: show, Title: ep.Title, Released: isoFromOMDb(ep.Released)}, nil
}

func (o *OMDb) seriesTitle(ctx context.Context, imdbID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	result, err := o.client.SearchByImdbID(omdb.QueryData{ImdbID: imdbID})
	if err != nil {
		return "", ErrNotFound
	}
	var title string
	switch v := result.(type) {
	case omdb.SeriesResult:
		title = v.Title
	case *omdb.SeriesResult:
		title = v.Title
	}
	if strings.TrimSpace(title) == "" {
		return "", ErrNotFound
	}
	return title, nil
}

func (o *OMDb) Movie(ctx context.Context, imdbID string) (Movie, error) {
	if err := ctx.Err(); err != nil {
		return Movie{}, err
	}
	result, err := o.client.SearchByImdbID(omdb.QueryData{ImdbID: imdbID})
	if err != nil {
		o.log.Debug().Err(err).Str("id", imdbID).Msg("movie lookup failed")
		return Movie{}, ErrNotFound
	}
	var title string
	switch v := result.(type) {
	case omdb.MovieResult:
		title = v.Title
	case *omdb.MovieResult:
		title = v.Title
	}
	if strings.TrimSpace(title) == "" {
		return Movie{}, ErrNotFound
	}
	return Movie{Title: title}, nil
}

// isoFromOMDb turns "17 Apr 2011" into "2011-04-17"; "N/A" and other
// shapes come back empty.
func isoFromOMDb(released string) string {
	t, err := time.Parse("2 Jan 2006", strings.TrimSpace(released))
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}
