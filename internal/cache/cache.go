// Package cache persists client-local story state in SQLite.
//
// The backend owns the story records; this database only remembers what this
// client has already seen, so tray rings survive restarts, plus light
// session bookkeeping. Safe for concurrent use; the underlying sql.DB
// serializes access.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Store is the local seen-story cache.
type Store struct {
	db *sql.DB
}

// Open creates or opens the cache at path. Migrations are applied
// automatically. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS seen (
		story_id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		seen_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_seen_owner ON seen(owner_id);
	CREATE INDEX IF NOT EXISTS idx_seen_at ON seen(seen_at);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY,
		started_at DATETIME NOT NULL,
		ended_at DATETIME,
		stories_viewed INTEGER DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// MarkSeen records that a story has been viewed locally. Marking twice is
// harmless; the first seen time wins.
func (s *Store) MarkSeen(storyID, ownerID string) error {
	_, err := s.db.Exec(`
		INSERT INTO seen (story_id, owner_id, seen_at) VALUES (?, ?, ?)
		ON CONFLICT(story_id) DO NOTHING
	`, storyID, ownerID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark seen: %w", err)
	}
	return nil
}

// Seen reports whether a story id has been marked.
func (s *Store) Seen(storyID string) (bool, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM seen WHERE story_id = ?", storyID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check seen: %w", err)
	}
	return n > 0, nil
}

// SeenSet returns, for the given ids, the subset this client has seen.
// Used to paint tray rings in one query per refresh.
func (s *Store) SeenSet(ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	stmt, err := s.db.Prepare("SELECT COUNT(*) FROM seen WHERE story_id = ?")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare seen query: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		var n int
		if err := stmt.QueryRow(id).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to check seen %s: %w", id, err)
		}
		if n > 0 {
			out[id] = true
		}
	}
	return out, nil
}

// Prune drops seen records older than maxAge. Stories expire server-side
// after a day, so their local marks are dead weight beyond that.
func (s *Store) Prune(maxAge time.Duration) error {
	_, err := s.db.Exec("DELETE FROM seen WHERE seen_at < ?", time.Now().Add(-maxAge))
	if err != nil {
		return fmt.Errorf("failed to prune seen cache: %w", err)
	}
	return nil
}

// StartSession records a new client session and returns its id.
func (s *Store) StartSession() (int64, error) {
	result, err := s.db.Exec("INSERT INTO sessions (started_at) VALUES (?)", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to start session: %w", err)
	}
	return result.LastInsertId()
}

// EndSession marks a session as ended with its view count.
func (s *Store) EndSession(id int64, storiesViewed int) error {
	_, err := s.db.Exec(
		"UPDATE sessions SET ended_at = ?, stories_viewed = ? WHERE id = ?",
		time.Now(), storiesViewed, id)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
