// Package magnet turns magnet URIs into canonical BitTorrent info hashes.
package magnet

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
)

const (
	Scheme     = "magnet:"
	BTIHPrefix = "magnet:?xt=urn:btih:"
	urnBTIH    = "urn:btih:"
)

var (
	ErrNotMagnet   = errors.New("not a magnet uri")
	ErrNoInfoHash  = errors.New("magnet has no btih topic")
	ErrBadInfoHash = errors.New("malformed info hash")
)

// HasBTIHPrefix reports whether s starts with "magnet:?xt=urn:btih:",
// ignoring case.
func HasBTIHPrefix(s string) bool {
	return len(s) >= len(BTIHPrefix) && strings.EqualFold(s[:len(BTIHPrefix)], BTIHPrefix)
}

// InfoHash returns the lower-case 40-hex info hash carried by uri. Both hex
// and 32-character base32 encodings are accepted.
func InfoHash(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if len(uri) < len(Scheme) || !strings.EqualFold(uri[:len(Scheme)], Scheme) {
		return "", ErrNotMagnet
	}
	rest := uri[len(Scheme):]
	if !strings.HasPrefix(rest, "?") {
		return "", ErrNotMagnet
	}
	// A stray escape in dn must not hide a valid topic, so parse errors are
	// ignored and whatever pairs decoded are used.
	values, _ := url.ParseQuery(rest[1:])

	keys := make([]string, 0, len(values))
	for key := range values {
		if isTopicKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, xt := range values[key] {
			if len(xt) < len(urnBTIH) || !strings.EqualFold(xt[:len(urnBTIH)], urnBTIH) {
				continue
			}
			return decodeHash(xt[len(urnBTIH):])
		}
	}
	return "", ErrNoInfoHash
}

// isTopicKey accepts "xt" and the numbered "xt.1" form.
func isTopicKey(key string) bool {
	key = strings.ToLower(key)
	return key == "xt" || strings.HasPrefix(key, "xt.")
}

// decodeHash hands a canonical single-topic magnet to metainfo, which knows
// the hex and base32 btih encodings.
func decodeHash(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	switch len(raw) {
	case 40:
	case 32:
		raw = strings.ToUpper(raw)
	default:
		return "", fmt.Errorf("%w: %q", ErrBadInfoHash, raw)
	}
	m, err := metainfo.ParseMagnetUri(BTIHPrefix + raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrBadInfoHash, raw, err)
	}
	return m.InfoHash.HexString(), nil
}

// Resolver adapts InfoHash to the resolution pipeline. Parsing never blocks,
// so rows of a page that was already fetched still resolve after ctx ends.
type Resolver struct{}

func (Resolver) InfoHash(_ context.Context, uri string) (string, error) {
	return InfoHash(uri)
}
