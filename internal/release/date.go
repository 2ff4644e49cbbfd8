package release

import (
	"fmt"
	"regexp"
	"time"
)

const isoLayout = "2006-01-02"

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoPrefix      = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
)

// ISODate returns the YYYY-MM-DD prefix of a metadata release value such as
// "2026-02-24T00:00:00.000Z", or "" when there is none.
func ISODate(released string) string {
	m := isoPrefix.FindStringSubmatch(released)
	if m == nil {
		return ""
	}
	return m[1]
}

// DateVariants renders an ISO date the ways it tends to appear in release
// titles: "24 Feb 2026", "24th Feb 2026" and "2026-02-24". An absent or
// malformed date yields nil, which disables date filtering downstream.
func DateVariants(isoDate string) []string {
	if !isoDatePattern.MatchString(isoDate) {
		return nil
	}
	d, err := time.Parse(isoLayout, isoDate)
	if err != nil {
		return nil
	}
	day := d.Day()
	mon := d.Format("Jan")
	return []string{
		fmt.Sprintf("%d %s %d", day, mon, d.Year()),
		fmt.Sprintf("%d%s %s %d", day, ordinalSuffix(day), mon, d.Year()),
		d.Format(isoLayout),
	}
}

func ordinalSuffix(day int) string {
	if n := day % 100; n >= 11 && n <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
