package streams

import (
	"fmt"

	"knaben/internal/release"
	"knaben/internal/search"
)

// Stream is the descriptor handed to addon clients.
type Stream struct {
	Name          string        `json:"name"`
	Title         string        `json:"title"`
	InfoHash      string        `json:"infoHash"`
	PeerCount     int           `json:"peerCount"`
	BehaviorHints BehaviorHints `json:"behaviorHints"`
}

type BehaviorHints struct {
	VideoSize int64 `json:"videoSize,omitempty"`
}

func newStream(row search.Row, infoHash, defaultLabel string) Stream {
	server := row.Source
	if server == "" {
		server = defaultLabel
	}
	s := Stream{
		Name:      server,
		Title:     fmt.Sprintf("%s\nSeeders: %d • Size: %s • Server: %s", row.Title, row.Seeders, row.Size, server),
		InfoHash:  infoHash,
		PeerCount: row.Seeders,
	}
	if size, ok := release.ParseSize(row.Size); ok && size > 0 {
		s.BehaviorHints.VideoSize = size
	}
	return s
}

// dedupe keeps the first stream for each info hash, in order.
func dedupe(in []Stream) []Stream {
	seen := make(map[string]struct{}, len(in))
	out := make([]Stream, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s.InfoHash]; dup {
			continue
		}
		seen[s.InfoHash] = struct{}{}
		out = append(out, s)
	}
	return out
}
