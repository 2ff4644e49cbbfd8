package streams

import (
	"fmt"
	"strings"
)

// Query is one search to run. Order in a plan is precedence: earlier
// queries are more precise and their streams win ties in the final dedup.
type Query struct {
	Text               string
	RequiresDateFilter bool
}

// Target is what the planner needs to know about the requested title.
// EpisodeCode is empty for movies. Variants may be empty, in which case
// date filtering lets every row through.
type Target struct {
	Title       string
	EpisodeCode string
	ISODate     string
	Variants    []string
}

// EpisodeCode renders season 1 episode 2 as "S01E02".
func EpisodeCode(season, episode int) string {
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

// Plan lists the searches for t from strongest to weakest. Episode-code
// queries skip the date filter.
func Plan(t Target) []Query {
	var plan []Query
	if t.EpisodeCode != "" {
		dotted := strings.Join(strings.Fields(t.Title), ".")
		plan = append(plan,
			Query{Text: t.Title + " " + t.EpisodeCode},
			Query{Text: t.Title + "." + t.EpisodeCode},
			Query{Text: dotted + "." + t.EpisodeCode},
		)
	}
	for _, v := range t.Variants {
		plan = append(plan, Query{Text: t.Title + " " + v, RequiresDateFilter: true})
	}
	if t.ISODate != "" {
		plan = append(plan, Query{Text: t.Title + " " + t.ISODate, RequiresDateFilter: true})
	}
	return append(plan, Query{Text: t.Title, RequiresDateFilter: true})
}
