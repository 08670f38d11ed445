package search

import (
	"context"
	"strings"
	"sync"
)

// MemoryIndex is an in-memory Searcher for tests and small data sets.
type MemoryIndex struct {
	limit int

	mu      sync.RWMutex
	entries map[string]struct{}
	closed  bool
}

// NewMemoryIndex creates an index holding entries.
func NewMemoryIndex(entries []string, opts ...IndexOption) *MemoryIndex {
	cfg := buildIndexConfig(opts)
	idx := &MemoryIndex{
		limit:   cfg.limit,
		entries: make(map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		idx.entries[e] = struct{}{}
	}
	return idx
}

// Add inserts entries. Duplicates are ignored.
func (m *MemoryIndex) Add(entries ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrIndexClosed
	}
	for _, e := range entries {
		if e == "" {
			continue
		}
		m.entries[e] = struct{}{}
	}
	return nil
}

// Len returns the number of entries.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Search implements Searcher.
func (m *MemoryIndex) Search(ctx context.Context, query string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrIndexClosed
	}

	q := normalizeQuery(query)
	if q == "" {
		return []string{}, nil
	}

	matches := make([]string, 0)
	for e := range m.entries {
		if strings.Contains(strings.ToLower(e), q) {
			matches = append(matches, e)
		}
	}
	sortEntries(matches)
	if len(matches) > m.limit {
		matches = matches[:m.limit]
	}
	return matches, nil
}

// Close releases the entries. Further calls return ErrIndexClosed.
func (m *MemoryIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}
