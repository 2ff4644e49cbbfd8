package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"knaben/internal/magnet"
)

// Row is one candidate release read from a results table.
type Row struct {
	Title   string
	Magnet  string
	Size    string
	Seeders int
	Source  string
}

// magnetStrategy finds a magnet candidate inside one table row.
type magnetStrategy struct {
	name string
	find func(tr *goquery.Selection) string
}

var onclickMagnet = regexp.MustCompile(`(?i)magnet:\?xt=urn:btih:[^'"\s)]+`)

// magnetStrategies are tried in order; the first value carrying the btih
// prefix wins.
var magnetStrategies = []magnetStrategy{
	{name: "anchor", find: func(tr *goquery.Selection) string {
		return firstAttr(tr.Find(`a[href]`), "href", magnet.HasBTIHPrefix)
	}},
	{name: "data-magnet", find: func(tr *goquery.Selection) string {
		return firstAttr(tr.Find(`[data-magnet]`), "data-magnet", magnet.HasBTIHPrefix)
	}},
	{name: "data-href", find: func(tr *goquery.Selection) string {
		return firstAttr(tr.Find(`[data-href]`), "data-href", magnet.HasBTIHPrefix)
	}},
	{name: "onclick", find: func(tr *goquery.Selection) string {
		var found string
		tr.Find(`[onclick]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v, _ := s.Attr("onclick")
			found = onclickMagnet.FindString(v)
			return found == ""
		})
		return found
	}},
}

func firstAttr(sel *goquery.Selection, attr string, accept func(string) bool) string {
	var found string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr(attr)
		v = strings.TrimSpace(v)
		if accept(v) {
			found = v
			return false
		}
		return true
	})
	return found
}

func findMagnet(tr *goquery.Selection) string {
	for _, strategy := range magnetStrategies {
		if v := strategy.find(tr); magnet.HasBTIHPrefix(v) {
			return v
		}
	}
	return ""
}

// ExtractRows reads every table row of a results page into candidate rows.
// Rows without a title or a btih magnet are dropped, and the result is
// de-duplicated by exact magnet string keeping the first occurrence.
func ExtractRows(page string) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	layouts := make(map[*html.Node]columns)
	var out []Row
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		cols := layoutFor(tr, layouts)

		title := collapse(cellText(cells, cols.title))
		if title == "" {
			return
		}
		link := findMagnet(tr)
		if link == "" {
			return
		}
		out = append(out, Row{
			Title:   title,
			Magnet:  link,
			Size:    strings.TrimSpace(cellText(cells, cols.size)),
			Seeders: parseCount(cellText(cells, cols.seeders)),
			Source:  strings.TrimSpace(cellText(cells, cols.source)),
		})
	})
	return dedupeRows(out), nil
}

func dedupeRows(rows []Row) []Row {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, r := range rows {
		if _, dup := seen[r.Magnet]; dup {
			continue
		}
		seen[r.Magnet] = struct{}{}
		out = append(out, r)
	}
	return out
}

func cellText(cells *goquery.Selection, idx int) string {
	if idx < 0 || idx >= cells.Length() {
		return ""
	}
	return cells.Eq(idx).Text()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseCount reads the leading integer of a cell such as "1,024" or "12 ",
// returning 0 when there is none.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func isWordBreak(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
