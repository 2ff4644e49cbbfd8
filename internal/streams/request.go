package streams

import (
	"strconv"
	"strings"
)

type Kind string

const (
	KindSeries Kind = "series"
	KindMovie  Kind = "movie"
)

// Request identifies one movie or one episode by catalog id.
type Request struct {
	Kind    Kind
	IMDbID  string
	Season  int
	Episode int
}

// ParseRequest reads an addon id: "tt123" for movies and
// "tt123:{season}:{episode}" for series. Segments after the episode are
// ignored.
func ParseRequest(kind, id string) (Request, bool) {
	switch Kind(kind) {
	case KindSeries:
		parts := strings.Split(id, ":")
		if len(parts) < 3 || !strings.HasPrefix(parts[0], "tt") {
			return Request{}, false
		}
		season, err := strconv.Atoi(parts[1])
		if err != nil || season < 0 {
			return Request{}, false
		}
		episode, err := strconv.Atoi(parts[2])
		if err != nil || episode < 0 {
			return Request{}, false
		}
		return Request{Kind: KindSeries, IMDbID: parts[0], Season: season, Episode: episode}, true
	case KindMovie:
		if !strings.HasPrefix(id, "tt") || strings.Contains(id, ":") {
			return Request{}, false
		}
		return Request{Kind: KindMovie, IMDbID: id}, true
	}
	return Request{}, false
}

func (r Request) ID() string {
	if r.Kind == KindSeries {
		return r.IMDbID + ":" + strconv.Itoa(r.Season) + ":" + strconv.Itoa(r.Episode)
	}
	return r.IMDbID
}
