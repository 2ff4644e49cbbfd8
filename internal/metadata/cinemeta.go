package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Cinemeta looks titles up in the public Stremio metadata catalog.
type Cinemeta struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewCinemeta(baseURL string, httpClient *http.Client, log zerolog.Logger) *Cinemeta {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Cinemeta{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log.With().Str("component", "cinemeta").Logger(),
	}
}

type cinemetaResponse struct {
	Meta *struct {
		Name     string          `json:"name"`
		Released string          `json:"released"`
		Videos   []cinemetaVideo `json:"videos"`
	} `json:"meta"`
}

type cinemetaVideo struct {
	Season   flexInt `json:"season"`
	Episode  flexInt `json:"episode"`
	Title    string  `json:"title"`
	Name     string  `json:"name"`
	Released string  `json:"released"`
}

// flexInt accepts 3, "3" and null.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = flexInt{}
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = flexInt{}
		return nil
	}
	*f = flexInt{Value: int(n), Valid: n == float64(int(n))}
	return nil
}

func (c *Cinemeta) Episode(ctx context.Context, imdbID string, season, episode int) (Episode, error) {
	resp, err := c.fetch(ctx, "series", imdbID)
	if err != nil {
		return Episode{}, err
	}
	if resp.Meta == nil || resp.Meta.Name == "" {
		return Episode{}, ErrNotFound
	}
	for _, v := range resp.Meta.Videos {
		if !v.Season.Valid || !v.Episode.Valid {
			continue
		}
		if v.Season.Value == season && v.Episode.Value == episode {
			title := v.Title
			if title == "" {
				title = v.Name
			}
			return Episode{ShowName: resp.Meta.Name, Title: title, Released: v.Released}, nil
		}
	}
	return Episode{}, ErrNotFound
}

func (c *Cinemeta) Movie(ctx context.Context, imdbID string) (Movie, error) {
	resp, err := c.fetch(ctx, "movie", imdbID)
	if err != nil {
		return Movie{}, err
	}
	if resp.Meta == nil || resp.Meta.Name == "" {
		return Movie{}, ErrNotFound
	}
	return Movie{Title: resp.Meta.Name, Released: resp.Meta.Released}, nil
}

func (c *Cinemeta) fetch(ctx context.Context, kind, imdbID string) (cinemetaResponse, error) {
	var out cinemetaResponse
	endpoint := fmt.Sprintf("%s/meta/%s/%s.json", c.baseURL, kind, url.PathEscape(imdbID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return out, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("cinemeta %s %s: %w", kind, imdbID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return out, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("id", imdbID).Msg("cinemeta lookup failed")
		return out, fmt.Errorf("cinemeta %s %s: http %d", kind, imdbID, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode cinemeta %s %s: %w", kind, imdbID, err)
	}
	return out, nil
}
