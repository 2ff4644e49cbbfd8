package streams

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"knaben/internal/metadata"
	"knaben/internal/release"
	"knaben/internal/search"
)

// Searcher returns the raw results page for a query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// HashResolver turns a magnet URI into a 40-hex info hash.
type HashResolver interface {
	InfoHash(ctx context.Context, uri string) (string, error)
}

type Options struct {
	// ProviderLabel names streams whose row carries no source.
	ProviderLabel string
	// Parallel is the number of queries in flight at once; 1 or less runs
	// them one after another.
	Parallel int
}

// Result is the outcome of one resolution. Streams is never nil.
type Result struct {
	Title      string
	Label      string
	Queries    []Query
	QueriesRun int
	Streams    []Stream
	Duration   time.Duration
}

// Aggregator turns a Request into a deduplicated stream list.
type Aggregator struct {
	meta   metadata.Lookup
	search Searcher
	hashes HashResolver
	opts   Options
	log    zerolog.Logger
}

func NewAggregator(meta metadata.Lookup, searcher Searcher, hashes HashResolver, opts Options, log zerolog.Logger) *Aggregator {
	if opts.ProviderLabel == "" {
		opts.ProviderLabel = "Knaben"
	}
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	return &Aggregator{
		meta:   meta,
		search: searcher,
		hashes: hashes,
		opts:   opts,
		log:    log.With().Str("component", "aggregator").Logger(),
	}
}

type phase int

const (
	phasePlanning phase = iota
	phaseQuerying
	phaseFinalDedup
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phasePlanning:
		return "planning"
	case phaseQuerying:
		return "querying"
	case phaseFinalDedup:
		return "final-dedup"
	case phaseDone:
		return "done"
	}
	return "unknown"
}

// resolution holds the state of one Resolve call. Nothing in it outlives
// the call.
type resolution struct {
	req     Request
	target  Target
	plan    []Query
	batches [][]Stream
	run     atomic.Int32
	memo    *pageMemo
	result  Result
	log     zerolog.Logger
}

// Resolve never fails: missing metadata, fetch errors and bad rows all
// shrink the result instead. Cancelling ctx stops new queries from starting
// and returns what was gathered so far.
func (a *Aggregator) Resolve(ctx context.Context, req Request) Result {
	start := time.Now()
	log := a.log.With().
		Str("resolution", uuid.NewString()).
		Str("id", req.ID()).
		Str("type", string(req.Kind)).
		Logger()
	r := &resolution{
		req:    req,
		memo:   newPageMemo(),
		result: Result{Streams: []Stream{}},
		log:    log,
	}

	for p := phasePlanning; p != phaseDone; {
		next := a.step(ctx, r, p)
		r.log.Trace().Stringer("from", p).Stringer("to", next).Msg("phase")
		p = next
	}

	r.result.QueriesRun = int(r.run.Load())
	r.result.Duration = time.Since(start)
	r.log.Info().
		Str("title", r.result.Title).
		Int("queries", r.result.QueriesRun).
		Int("streams", len(r.result.Streams)).
		Dur("took", r.result.Duration).
		Msg("resolved")
	return r.result
}

func (a *Aggregator) step(ctx context.Context, r *resolution, p phase) phase {
	switch p {
	case phasePlanning:
		return a.planning(ctx, r)
	case phaseQuerying:
		return a.querying(ctx, r)
	case phaseFinalDedup:
		return a.finalDedup(r)
	}
	return phaseDone
}

func (a *Aggregator) planning(ctx context.Context, r *resolution) phase {
	var released string
	switch r.req.Kind {
	case KindSeries:
		ep, err := a.meta.Episode(ctx, r.req.IMDbID, r.req.Season, r.req.Episode)
		if err != nil || strings.TrimSpace(ep.ShowName) == "" {
			r.log.Info().Err(err).Msg("no metadata for episode")
			return phaseDone
		}
		r.target.Title = strings.TrimSpace(ep.ShowName)
		r.target.EpisodeCode = EpisodeCode(r.req.Season, r.req.Episode)
		released = ep.Released
	case KindMovie:
		m, err := a.meta.Movie(ctx, r.req.IMDbID)
		if err != nil || strings.TrimSpace(m.Title) == "" {
			r.log.Info().Err(err).Msg("no metadata for movie")
			return phaseDone
		}
		r.target.Title = strings.TrimSpace(m.Title)
		released = m.Released
	default:
		return phaseDone
	}

	r.target.ISODate = release.ISODate(released)
	r.target.Variants = release.DateVariants(r.target.ISODate)
	r.plan = Plan(r.target)
	r.batches = make([][]Stream, len(r.plan))
	r.result.Title = r.target.Title
	r.result.Label = label(r.target, r.req)
	r.result.Queries = r.plan
	return phaseQuerying
}

func (a *Aggregator) querying(ctx context.Context, r *resolution) phase {
	if a.opts.Parallel <= 1 {
		for i, q := range r.plan {
			if ctx.Err() != nil {
				r.log.Warn().Int("skipped", len(r.plan)-i).Msg("deadline reached, skipping remaining queries")
				break
			}
			r.run.Add(1)
			r.batches[i] = a.runQuery(ctx, r, q)
		}
		return phaseFinalDedup
	}

	// Each query writes only its own slot; the dedup pass reads slots in
	// plan order so output matches the sequential mode.
	var g errgroup.Group
	g.SetLimit(a.opts.Parallel)
	for i, q := range r.plan {
		if ctx.Err() != nil {
			r.log.Warn().Int("skipped", len(r.plan)-i).Msg("deadline reached, skipping remaining queries")
			break
		}
		r.run.Add(1)
		g.Go(func() error {
			r.batches[i] = a.runQuery(ctx, r, q)
			return nil
		})
	}
	_ = g.Wait()
	return phaseFinalDedup
}

func (a *Aggregator) runQuery(ctx context.Context, r *resolution, q Query) []Stream {
	log := r.log.With().Str("query", q.Text).Logger()

	page, err := r.memo.fetch(ctx, q.Text, a.search.Search)
	if err != nil {
		log.Warn().Err(err).Msg("search failed")
		return nil
	}
	if strings.TrimSpace(page) == "" {
		return nil
	}
	rows, err := search.ExtractRows(page)
	if err != nil {
		log.Warn().Err(err).Msg("unreadable results page")
		return nil
	}

	candidates := rows
	if q.RequiresDateFilter {
		candidates = release.FilterByDate(rows, rowTitle, r.target.Variants)
	}

	var out []Stream
	seen := make(map[string]struct{}, len(candidates))
	for _, row := range candidates {
		hash, err := a.hashes.InfoHash(ctx, row.Magnet)
		if err != nil {
			log.Debug().Err(err).Str("row", row.Title).Msg("skipping row")
			continue
		}
		if _, dup := seen[hash]; dup {
			continue
		}
		seen[hash] = struct{}{}
		out = append(out, newStream(row, hash, a.opts.ProviderLabel))
	}
	log.Debug().Int("rows", len(rows)).Int("streams", len(out)).Msg("query done")
	return out
}

func rowTitle(r search.Row) string { return r.Title }

func (a *Aggregator) finalDedup(r *resolution) phase {
	var all []Stream
	for _, batch := range r.batches {
		all = append(all, batch...)
	}
	r.result.Streams = dedupe(all)
	return phaseDone
}

// label is the short human description of a target, e.g.
// "Example Show • 24th Feb 2026 • S1E2".
func label(t Target, req Request) string {
	parts := []string{t.Title}
	switch {
	case len(t.Variants) > 1:
		parts = append(parts, t.Variants[1])
	case t.ISODate != "":
		parts = append(parts, t.ISODate)
	}
	if req.Kind == KindSeries {
		parts = append(parts, "S"+strconv.Itoa(req.Season)+"E"+strconv.Itoa(req.Episode))
	}
	return strings.Join(parts, " • ")
}
