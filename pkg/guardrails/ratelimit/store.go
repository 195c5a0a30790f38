package ratelimit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// WindowState is the persisted form of one (operation, actor) window.
type WindowState struct {
	Operation   string
	Actor       string
	WindowStart time.Time
	Count       int
}

const windowSchema = `
CREATE TABLE IF NOT EXISTS rate_windows (
    operation TEXT NOT NULL,
    actor TEXT NOT NULL,
    window_start TIMESTAMP NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (operation, actor)
);
`

// SQLiteStore persists rate window counters so quotas survive a process
// restart. Suitable for single-instance deployments; every increment is
// written through.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the window database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create rate window store directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rate window store %q: %w", path, err)
	}

	// Single writer keeps UPSERTs serialized without busy retries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(windowSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create rate window schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns all persisted window states.
func (s *SQLiteStore) Load() ([]WindowState, error) {
	rows, err := s.db.Query("SELECT operation, actor, window_start, count FROM rate_windows")
	if err != nil {
		return nil, fmt.Errorf("failed to load rate windows: %w", err)
	}
	defer rows.Close()

	var states []WindowState
	for rows.Next() {
		var st WindowState
		if err := rows.Scan(&st.Operation, &st.Actor, &st.WindowStart, &st.Count); err != nil {
			return nil, fmt.Errorf("failed to scan rate window: %w", err)
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

// Save upserts one window state.
func (s *SQLiteStore) Save(st WindowState) error {
	_, err := s.db.Exec(`
		INSERT INTO rate_windows (operation, actor, window_start, count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(operation, actor) DO UPDATE SET
			window_start = excluded.window_start,
			count = excluded.count
	`, st.Operation, st.Actor, st.WindowStart, st.Count)
	if err != nil {
		return fmt.Errorf("failed to save rate window: %w", err)
	}
	return nil
}

// Prune deletes windows whose start is older than the longest window could
// keep alive. The cutoff is conservative: callers pass the current time and
// any row started more than 24h before it is removed.
func (s *SQLiteStore) Prune(now time.Time) error {
	_, err := s.db.Exec("DELETE FROM rate_windows WHERE window_start < ?", now.Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to prune rate windows: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
