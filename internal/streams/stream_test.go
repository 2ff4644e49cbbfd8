package streams

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"knaben/internal/search"
)

func TestNewStream(t *testing.T) {
	got := newStream(search.Row{
		Title:   "Example.Show.S01E02.1080p",
		Size:    "613.5MB",
		Seeders: 42,
		Source:  "TrackerOne",
	}, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "Knaben")

	want := Stream{
		Name:          "TrackerOne",
		Title:         "Example.Show.S01E02.1080p\nSeeders: 42 • Size: 613.5MB • Server: TrackerOne",
		InfoHash:      "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		PeerCount:     42,
		BehaviorHints: BehaviorHints{VideoSize: 613500000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stream mismatch (-want +got):\n%s", diff)
	}
}

func TestNewStreamDefaults(t *testing.T) {
	got := newStream(search.Row{Title: "Some Title", Size: "unknown"}, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "Knaben")
	if got.Name != "Knaben" {
		t.Fatalf("name = %q", got.Name)
	}
	if got.Title != "Some Title\nSeeders: 0 • Size: unknown • Server: Knaben" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.BehaviorHints.VideoSize != 0 {
		t.Fatalf("video size = %d, want omitted", got.BehaviorHints.VideoSize)
	}
}

func TestDedupe(t *testing.T) {
	in := []Stream{{InfoHash: "a", Name: "1"}, {InfoHash: "b"}, {InfoHash: "a", Name: "2"}}
	got := dedupe(in)
	if len(got) != 2 || got[0].Name != "1" || got[1].InfoHash != "b" {
		t.Fatalf("dedupe = %+v", got)
	}
}
