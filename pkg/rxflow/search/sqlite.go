package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteIndex is a Searcher backed by a SQLite table of entries.
type SQLiteIndex struct {
	db    *sql.DB
	limit int

	mu     sync.RWMutex
	closed bool
}

// NewSQLiteIndex opens (or creates) an index at path.
// The path should be a file path (e.g., "./cities.db") or ":memory:" for testing.
func NewSQLiteIndex(path string, opts ...IndexOption) (*SQLiteIndex, error) {
	cfg := buildIndexConfig(opts)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			name TEXT NOT NULL PRIMARY KEY,
			folded TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_entries_folded
		ON entries(folded)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteIndex{db: db, limit: cfg.limit}, nil
}

// Seed inserts entries in a single transaction. Existing entries are kept.
func (s *SQLiteIndex) Seed(ctx context.Context, entries ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrIndexClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (name, folded) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare seed: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if e == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, e, strings.ToLower(e)); err != nil {
			return fmt.Errorf("seed %q: %w", e, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// Len returns the number of entries.
func (s *SQLiteIndex) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrIndexClosed
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Search implements Searcher.
func (s *SQLiteIndex) Search(ctx context.Context, query string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrIndexClosed
	}

	q := normalizeQuery(query)
	if q == "" {
		return []string{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM entries
		WHERE instr(folded, ?) > 0
		ORDER BY folded, name
		LIMIT ?
	`, q, s.limit)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()

	matches := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		matches = append(matches, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return matches, nil
}

// Close closes the database. It is safe to call more than once.
func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
