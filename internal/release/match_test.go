package release

import "testing"

func TestMatchesDate(t *testing.T) {
	variants := DateVariants("2026-02-24")

	tests := []struct {
		title    string
		variants []string
		want     bool
	}{
		{title: "Example Show 24 Feb 2026 720p", variants: variants, want: true},
		{title: "Example  Show   24TH   feb 2026", variants: variants, want: true},
		{title: "example.show.2026-02-24.1080p", variants: variants, want: true},
		{title: "Example Show 25 Feb 2026", variants: variants, want: false},
		{title: "Example Show S01E02", variants: variants, want: false},
		{title: "Anything at all", variants: nil, want: true},
		{title: "", variants: []string{}, want: true},
	}
	for _, tt := range tests {
		if got := MatchesDate(tt.title, tt.variants); got != tt.want {
			t.Errorf("MatchesDate(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Foo\t BAR\n baz "); got != "foo bar baz" {
		t.Fatalf("Normalize() = %q", got)
	}
}

func TestFilterByDate(t *testing.T) {
	titles := []string{"Show 24 Feb 2026", "Show S01E02", "Show 2026-02-24 1080p"}
	id := func(s string) string { return s }

	got := FilterByDate(titles, id, DateVariants("2026-02-24"))
	if len(got) != 2 || got[0] != titles[0] || got[1] != titles[2] {
		t.Fatalf("FilterByDate = %v", got)
	}
	if all := FilterByDate(titles, id, nil); len(all) != len(titles) {
		t.Fatalf("empty variants should keep everything, got %v", all)
	}
}
