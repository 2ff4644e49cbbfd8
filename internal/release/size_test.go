package release

import (
	"math"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int64
		wantOK bool
	}{
		{name: "decimal megabytes", input: "613.5MB", want: 613500000, wantOK: true},
		{name: "spaced gigabytes", input: "1.06 GB", want: int64(math.Round(1.06 * 1000 * 1000 * 1000)), wantOK: true},
		{name: "binary mebibytes", input: "552.7 MiB", want: int64(math.Round(552.7 * 1024 * 1024)), wantOK: true},
		{name: "lower case unit", input: "2gib", want: 2 * 1024 * 1024 * 1024, wantOK: true},
		{name: "plain bytes", input: "512 B", want: 512, wantOK: true},
		{name: "kilobytes", input: "1.5KB", want: 1500, wantOK: true},
		{name: "terabytes", input: "1 TB", want: 1000000000000, wantOK: true},
		{name: "padded", input: "  700 MB  ", want: 700000000, wantOK: true},
		{name: "garbage", input: "garbage"},
		{name: "empty", input: ""},
		{name: "unknown unit", input: "12 PB"},
		{name: "no number", input: "MB"},
		{name: "two dots", input: "1.2.3 MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSize(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseSize(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
