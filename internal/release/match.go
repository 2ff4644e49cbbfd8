package release

import "strings"

// Normalize lower-cases text and collapses every whitespace run to a single
// space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// MatchesDate reports whether title contains any of the date variants.
// An empty variant list matches everything.
func MatchesDate(title string, variants []string) bool {
	if len(variants) == 0 {
		return true
	}
	t := Normalize(title)
	for _, v := range variants {
		if nv := Normalize(v); nv != "" && strings.Contains(t, nv) {
			return true
		}
	}
	return false
}

// FilterByDate keeps the items whose title matches variants, in order.
// With no variants every item is kept.
func FilterByDate[T any](items []T, title func(T) string, variants []string) []T {
	if len(variants) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if MatchesDate(title(it), variants) {
			out = append(out, it)
		}
	}
	return out
}
