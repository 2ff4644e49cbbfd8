package streams

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"knaben/internal/magnet"
	"knaben/internal/metadata"
)

const (
	hashA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hashB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	hashC = "cccccccccccccccccccccccccccccccccccccccc"
)

type pageRow struct {
	title, hash, size, seeders, source string
}

func page(rows ...pageRow) string {
	var b strings.Builder
	b.WriteString("<html><body><table>")
	for _, r := range rows {
		fmt.Fprintf(&b, `<tr><td>TV</td><td>%s</td><td>%s</td><td>-</td><td>%s</td><td>0</td><td>%s</td><td><a href="magnet:?xt=urn:btih:%s&dn=x">m</a></td></tr>`,
			r.title, r.size, r.seeders, r.source, r.hash)
	}
	b.WriteString("</table></body></html>")
	return b.String()
}

type fakeSearcher struct {
	mu    sync.Mutex
	calls []string
	pages func(query string) (string, error)
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()
	return f.pages(query)
}

type fakeMeta struct {
	episode metadata.Episode
	movie   metadata.Movie
	err     error
}

func (f fakeMeta) Episode(ctx context.Context, imdbID string, season, episode int) (metadata.Episode, error) {
	return f.episode, f.err
}

func (f fakeMeta) Movie(ctx context.Context, imdbID string) (metadata.Movie, error) {
	return f.movie, f.err
}

var exampleEpisode = fakeMeta{episode: metadata.Episode{
	ShowName: "Example Show",
	Title:    "Second",
	Released: "2026-02-24T02:00:00.000Z",
}}

// exampleSearch answers episode-code queries with the precise release and
// every other query with a date match plus an unrelated row.
func exampleSearch(query string) (string, error) {
	if strings.Contains(query, "S01E02") {
		return page(pageRow{"Example.Show.S01E02.1080p", hashA, "1.5 GB", "12", ""}), nil
	}
	return page(
		pageRow{"Example.Show.S01E02.1080p", hashA, "1.5 GB", "12", ""},
		pageRow{"Example Show 24 Feb 2026 720p", hashB, "552.7 MiB", "7", "TrackerTwo"},
		pageRow{"Unrelated Thing 2019", hashC, "1 GB", "99", ""},
	), nil
}

func newTestAggregator(meta metadata.Lookup, s Searcher, parallel int) *Aggregator {
	return NewAggregator(meta, s, magnet.Resolver{}, Options{ProviderLabel: "Knaben", Parallel: parallel}, zerolog.Nop())
}

func TestResolveEpisode(t *testing.T) {
	searcher := &fakeSearcher{pages: exampleSearch}
	agg := newTestAggregator(exampleEpisode, searcher, 1)

	res := agg.Resolve(context.Background(), Request{Kind: KindSeries, IMDbID: "tt1", Season: 1, Episode: 2})

	want := []Stream{
		{
			Name:          "Knaben",
			Title:         "Example.Show.S01E02.1080p\nSeeders: 12 • Size: 1.5 GB • Server: Knaben",
			InfoHash:      hashA,
			PeerCount:     12,
			BehaviorHints: BehaviorHints{VideoSize: 1500000000},
		},
		{
			Name:          "TrackerTwo",
			Title:         "Example Show 24 Feb 2026 720p\nSeeders: 7 • Size: 552.7 MiB • Server: TrackerTwo",
			InfoHash:      hashB,
			PeerCount:     7,
			BehaviorHints: BehaviorHints{VideoSize: 579547955},
		},
	}
	if diff := cmp.Diff(want, res.Streams); diff != "" {
		t.Fatalf("streams mismatch (-want +got):\n%s", diff)
	}
	if res.Title != "Example Show" {
		t.Fatalf("title = %q", res.Title)
	}
	if res.Label != "Example Show • 24th Feb 2026 • S1E2" {
		t.Fatalf("label = %q", res.Label)
	}
	if res.QueriesRun != 8 {
		t.Fatalf("queries run = %d, want 8", res.QueriesRun)
	}
	// The ISO query text appears twice in the plan but is fetched once.
	if len(searcher.calls) != 7 {
		t.Fatalf("search calls = %d (%v), want 7", len(searcher.calls), searcher.calls)
	}
	if searcher.calls[0] != "Example Show S01E02" {
		t.Fatalf("first query = %q", searcher.calls[0])
	}
}

func TestResolveParallelMatchesSequential(t *testing.T) {
	seq := newTestAggregator(exampleEpisode, &fakeSearcher{pages: exampleSearch}, 1)
	par := newTestAggregator(exampleEpisode, &fakeSearcher{pages: exampleSearch}, 4)
	req := Request{Kind: KindSeries, IMDbID: "tt1", Season: 1, Episode: 2}

	want := seq.Resolve(context.Background(), req).Streams
	for i := 0; i < 20; i++ {
		got := par.Resolve(context.Background(), req).Streams
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("parallel run %d differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestResolveMissingMetadata(t *testing.T) {
	searcher := &fakeSearcher{pages: exampleSearch}
	agg := newTestAggregator(fakeMeta{err: metadata.ErrNotFound}, searcher, 1)

	for _, req := range []Request{
		{Kind: KindSeries, IMDbID: "tt404", Season: 1, Episode: 1},
		{Kind: KindMovie, IMDbID: "tt404"},
	} {
		res := agg.Resolve(context.Background(), req)
		if res.Streams == nil || len(res.Streams) != 0 {
			t.Fatalf("streams = %#v, want empty non-nil", res.Streams)
		}
	}
	if len(searcher.calls) != 0 {
		t.Fatalf("search called %d times", len(searcher.calls))
	}
}

func TestResolveSearchFailureDegrades(t *testing.T) {
	searcher := &fakeSearcher{pages: func(query string) (string, error) {
		if strings.Contains(query, "S01E02") {
			return "", errors.New("connection reset")
		}
		return exampleSearch(query)
	}}
	agg := newTestAggregator(exampleEpisode, searcher, 1)

	res := agg.Resolve(context.Background(), Request{Kind: KindSeries, IMDbID: "tt1", Season: 1, Episode: 2})
	if len(res.Streams) != 1 || res.Streams[0].InfoHash != hashB {
		t.Fatalf("streams = %+v, want only the date match", res.Streams)
	}
}

func TestResolveMovieWithoutDate(t *testing.T) {
	searcher := &fakeSearcher{pages: func(query string) (string, error) {
		return page(
			pageRow{"Example Movie 2020 1080p", hashA, "garbage", "x", ""},
			pageRow{"Example Movie 2020 720p", strings.ToUpper(hashA), "700 MB", "3", ""},
			pageRow{"Example Movie 2020 2160p", "not-a-hash", "4 GB", "1", ""},
		), nil
	}}
	agg := newTestAggregator(fakeMeta{movie: metadata.Movie{Title: "Example Movie"}}, searcher, 1)

	res := agg.Resolve(context.Background(), Request{Kind: KindMovie, IMDbID: "tt2"})
	if diff := cmp.Diff([]string{"Example Movie"}, searcher.calls); diff != "" {
		t.Fatalf("queries mismatch (-want +got):\n%s", diff)
	}
	// Both spellings of hashA resolve to the same hash; the first row wins.
	if len(res.Streams) != 1 {
		t.Fatalf("streams = %+v", res.Streams)
	}
	got := res.Streams[0]
	if got.InfoHash != hashA || got.PeerCount != 0 || got.BehaviorHints.VideoSize != 0 {
		t.Fatalf("stream = %+v", got)
	}
	if res.Label != "Example Movie" {
		t.Fatalf("label = %q", res.Label)
	}
}

func TestResolveCanceledContext(t *testing.T) {
	searcher := &fakeSearcher{pages: exampleSearch}
	agg := newTestAggregator(exampleEpisode, searcher, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := agg.Resolve(ctx, Request{Kind: KindSeries, IMDbID: "tt1", Season: 1, Episode: 2})
	if res.QueriesRun != 0 || len(res.Streams) != 0 {
		t.Fatalf("result = %+v, want nothing run", res)
	}
	if len(searcher.calls) != 0 {
		t.Fatalf("search called %d times", len(searcher.calls))
	}
}

type stopAfter struct {
	fakeSearcher
	cancel context.CancelFunc
	n      int
}

func (s *stopAfter) Search(ctx context.Context, query string) (string, error) {
	page, err := s.fakeSearcher.Search(ctx, query)
	s.mu.Lock()
	if len(s.calls) >= s.n {
		s.cancel()
	}
	s.mu.Unlock()
	return page, err
}

func TestResolveDeadlineKeepsGatheredStreams(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	searcher := &stopAfter{fakeSearcher: fakeSearcher{pages: exampleSearch}, cancel: cancel, n: 1}
	agg := newTestAggregator(exampleEpisode, searcher, 1)

	res := agg.Resolve(ctx, Request{Kind: KindSeries, IMDbID: "tt1", Season: 1, Episode: 2})
	if res.QueriesRun != 1 {
		t.Fatalf("queries run = %d, want 1", res.QueriesRun)
	}
	if len(res.Streams) != 1 || res.Streams[0].InfoHash != hashA {
		t.Fatalf("streams = %+v, want the fetched %s row", res.Streams, hashA)
	}
}
