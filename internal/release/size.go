package release

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var sizePattern = regexp.MustCompile(`(?i)^([\d.]+)(B|KB|MB|GB|TB|KiB|MiB|GiB|TiB)$`)

// sizeLadder maps an upper-cased unit prefix to its exponent.
var sizeLadder = map[string]int{
	"B": 0,
	"K": 1,
	"M": 2,
	"G": 3,
	"T": 4,
}

// ParseSize converts a listing size such as "613.5MB", "1.06 GB" or
// "552.7 MiB" into bytes. Decimal units use base 1000, binary units
// base 1024. ok is false when the text is not a recognised size; callers
// must treat that as unknown, not zero.
func ParseSize(text string) (bytes int64, ok bool) {
	compact := strings.Join(strings.Fields(text), "")
	if compact == "" {
		return 0, false
	}
	m := sizePattern.FindStringSubmatch(compact)
	if m == nil {
		return 0, false
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	unit := strings.ToUpper(m[2])
	base := 1000.0
	if strings.HasSuffix(unit, "IB") {
		base = 1024
	}
	exp, known := sizeLadder[unit[:1]]
	if !known {
		return 0, false
	}
	return int64(math.Round(num * math.Pow(base, float64(exp)))), true
}
