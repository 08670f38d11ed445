package search

import (
	"context"
	"fmt"

	"github.com/randalmurphal/rxflow/pkg/rxflow/config"
)

// Index is a Searcher that holds resources.
type Index interface {
	Searcher
	Close() error
}

// Compile-time interface checks.
var (
	_ Index = (*MemoryIndex)(nil)
	_ Index = (*SQLiteIndex)(nil)
)

// OpenIndex opens the index described by s and seeds it with entries.
func OpenIndex(ctx context.Context, s config.IndexSettings, entries []string) (Index, error) {
	switch s.Driver {
	case config.DriverMemory, "":
		return NewMemoryIndex(entries, WithLimit(s.Limit)), nil
	case config.DriverSQLite:
		idx, err := NewSQLiteIndex(s.Path, WithLimit(s.Limit))
		if err != nil {
			return nil, err
		}
		if err := idx.Seed(ctx, entries...); err != nil {
			idx.Close()
			return nil, err
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("unknown index driver %q", s.Driver)
	}
}
