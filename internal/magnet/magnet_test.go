package magnet

import (
	"context"
	"errors"
	"testing"
)

const sampleHash = "0123456789abcdef0123456789abcdef01234567"

func TestInfoHash(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr error
	}{
		{name: "hex", uri: "magnet:?xt=urn:btih:" + sampleHash + "&dn=Example", want: sampleHash},
		{name: "upper hex", uri: "magnet:?xt=urn:btih:0123456789ABCDEF0123456789ABCDEF01234567", want: sampleHash},
		{name: "padded", uri: "  magnet:?dn=x&xt=urn:btih:" + sampleHash + "  ", want: sampleHash},
		{name: "upper scheme", uri: "MAGNET:?XT=URN:BTIH:" + sampleHash, want: sampleHash},
		{name: "base32", uri: "magnet:?xt=urn:btih:AERUKZ4JVPG66AJDIVTYTK6N54ASGRLH", want: sampleHash},
		{name: "lower base32", uri: "magnet:?xt=urn:btih:aerukz4jvpg66ajdivtytk6n54asgrlh", want: sampleHash},
		{name: "http url", uri: "https://example.com/file.torrent", wantErr: ErrNotMagnet},
		{name: "no query", uri: "magnet:", wantErr: ErrNotMagnet},
		{name: "no btih", uri: "magnet:?xt=urn:sha1:abc&dn=x", wantErr: ErrNoInfoHash},
		{name: "short hash", uri: "magnet:?xt=urn:btih:abc", wantErr: ErrBadInfoHash},
		{name: "non hex", uri: "magnet:?xt=urn:btih:zz23456789abcdef0123456789abcdef01234567", wantErr: ErrBadInfoHash},
		{name: "non base32", uri: "magnet:?xt=urn:btih:01RUKZ4JVPG66AJDIVTYTK6N54ASGRLH", wantErr: ErrBadInfoHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InfoHash(tt.uri)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("InfoHash() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("InfoHash() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("InfoHash() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasBTIHPrefix(t *testing.T) {
	if !HasBTIHPrefix("magnet:?xt=urn:btih:abc") {
		t.Fatal("expected lower-case prefix to match")
	}
	if !HasBTIHPrefix("Magnet:?xt=URN:BTIH:abc") {
		t.Fatal("expected mixed-case prefix to match")
	}
	if HasBTIHPrefix("magnet:?dn=abc") || HasBTIHPrefix("magnet") {
		t.Fatal("unexpected prefix match")
	}
}

func TestResolverIgnoresFinishedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := (Resolver{}).InfoHash(ctx, "magnet:?xt=urn:btih:"+sampleHash)
	if err != nil {
		t.Fatalf("InfoHash() error = %v", err)
	}
	if got != sampleHash {
		t.Fatalf("InfoHash() = %q, want %q", got, sampleHash)
	}
}
