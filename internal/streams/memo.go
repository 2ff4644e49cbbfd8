package streams

import (
	"context"
	"sync"
)

type pageEntry struct {
	ready chan struct{}
	page  string
	err   error
}

// pageMemo shares fetched pages between identical query texts of a single
// resolution. It is dropped when the resolution ends.
type pageMemo struct {
	mu    sync.Mutex
	pages map[string]*pageEntry
}

func newPageMemo() *pageMemo {
	return &pageMemo{pages: make(map[string]*pageEntry)}
}

func (m *pageMemo) fetch(ctx context.Context, query string, fetch func(context.Context, string) (string, error)) (string, error) {
	m.mu.Lock()
	if entry, ok := m.pages[query]; ok {
		m.mu.Unlock()
		select {
		case <-entry.ready:
			return entry.page, entry.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	entry := &pageEntry{ready: make(chan struct{})}
	m.pages[query] = entry
	m.mu.Unlock()

	entry.page, entry.err = fetch(ctx, query)
	close(entry.ready)
	return entry.page, entry.err
}
