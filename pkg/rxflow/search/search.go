// Package search provides the live search pipeline and the city indexes it
// queries.
package search

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// Searcher performs a blocking lookup. It is only ever invoked from a
// Background scheduler. Implementations must be safe for concurrent use.
type Searcher interface {
	// Search returns the entries matching query. An empty result is not an
	// error.
	Search(ctx context.Context, query string) ([]string, error)
}

// SearcherFunc adapts a plain function to Searcher.
type SearcherFunc func(ctx context.Context, query string) ([]string, error)

// Search implements Searcher.
func (f SearcherFunc) Search(ctx context.Context, query string) ([]string, error) {
	return f(ctx, query)
}

// Results is what a live search subscriber receives for one settled query.
type Results struct {
	Query string
	Items []string
}

// Empty reports whether the lookup matched nothing. Subscribers use it to
// show an empty-state indicator.
func (r Results) Empty() bool {
	return len(r.Items) == 0
}

// Sentinel errors for index operations.
var (
	// ErrIndexClosed indicates the index has been closed.
	ErrIndexClosed = errors.New("search index closed")
)

// DefaultLimit caps the number of results an index returns.
const DefaultLimit = 20

// IndexOption configures an index.
type IndexOption func(*indexConfig)

type indexConfig struct {
	limit int
}

// WithLimit caps the number of results per query. Values below 1 are
// ignored.
func WithLimit(n int) IndexOption {
	return func(c *indexConfig) {
		if n > 0 {
			c.limit = n
		}
	}
}

func buildIndexConfig(opts []IndexOption) indexConfig {
	cfg := indexConfig{limit: DefaultLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// normalizeQuery trims whitespace and folds case. An empty result means
// "match nothing".
func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// sortEntries orders entries case-insensitively, breaking ties by the raw
// string so the order is total.
func sortEntries(entries []string) {
	sort.Slice(entries, func(i, j int) bool {
		li, lj := strings.ToLower(entries[i]), strings.ToLower(entries[j])
		if li != lj {
			return li < lj
		}
		return entries[i] < entries[j]
	})
}
