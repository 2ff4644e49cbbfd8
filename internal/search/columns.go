package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// columns holds the cell index of each field in a results table.
type columns struct {
	title   int
	size    int
	seeders int
	source  int
}

// Fixed layout: Category | Title | Size | Date | Seeders | Leechers | Source.
var positionalColumns = columns{title: 1, size: 2, seeders: 4, source: 6}

var headerWords = map[string][]string{
	"title":   {"title", "name"},
	"size":    {"size"},
	"seeders": {"seeders", "seeds", "seed", "se"},
	"source":  {"source", "tracker", "indexer", "site"},
}

// layoutFor resolves the column layout of the table holding tr, scanning
// that table's header row once.
func layoutFor(tr *goquery.Selection, cache map[*html.Node]columns) columns {
	table := tr.Closest("table")
	if table.Length() == 0 {
		return positionalColumns
	}
	node := table.Get(0)
	if cols, ok := cache[node]; ok {
		return cols
	}
	cols := resolveColumns(table)
	cache[node] = cols
	return cols
}

func resolveColumns(table *goquery.Selection) columns {
	header := table.Find("tr").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("th").Length() > 0
	}).First()
	if header.Length() == 0 {
		return positionalColumns
	}

	found := map[string]int{}
	header.ChildrenFiltered("th, td").Each(func(i int, cell *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(cell.Text()))
		// "Release" alone names the title column; "Release Date" does not.
		if text == "release" {
			if _, taken := found["title"]; !taken {
				found["title"] = i
			}
			return
		}
		for _, word := range strings.FieldsFunc(text, isWordBreak) {
			field := fieldForWord(word)
			if field == "" {
				continue
			}
			if _, taken := found[field]; !taken {
				found[field] = i
			}
			break
		}
	})

	cols := positionalColumns
	if i, ok := found["title"]; ok {
		cols.title = i
	}
	if i, ok := found["size"]; ok {
		cols.size = i
	}
	if i, ok := found["seeders"]; ok {
		cols.seeders = i
	}
	if i, ok := found["source"]; ok {
		cols.source = i
	}
	return cols
}

func fieldForWord(word string) string {
	for field, words := range headerWords {
		for _, w := range words {
			if w == word {
				return field
			}
		}
	}
	return ""
}
