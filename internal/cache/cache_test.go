package cache

import (
	"database/sql"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMarkAndCheckSeen(t *testing.T) {
	s := openTestStore(t)

	seen, err := s.Seen("s1")
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if seen {
		t.Error("fresh story should not be seen")
	}

	if err := s.MarkSeen("s1", "u1"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	// Double-mark is a no-op, not an error.
	if err := s.MarkSeen("s1", "u1"); err != nil {
		t.Fatalf("second MarkSeen: %v", err)
	}

	seen, err = s.Seen("s1")
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if !seen {
		t.Error("marked story should be seen")
	}
}

func TestSeenSet(t *testing.T) {
	s := openTestStore(t)
	s.MarkSeen("s1", "u1")
	s.MarkSeen("s3", "u2")

	set, err := s.SeenSet([]string{"s1", "s2", "s3"})
	if err != nil {
		t.Fatalf("SeenSet: %v", err)
	}
	if !set["s1"] || set["s2"] || !set["s3"] {
		t.Errorf("seen set = %v", set)
	}

	empty, err := s.SeenSet(nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty input: set=%v err=%v", empty, err)
	}
}

func TestPruneDropsOldMarks(t *testing.T) {
	s := openTestStore(t)
	s.MarkSeen("old", "u1")

	// Backdate the record past the expiry window.
	if _, err := s.db.Exec("UPDATE seen SET seen_at = ? WHERE story_id = 'old'",
		time.Now().Add(-48*time.Hour)); err != nil {
		t.Fatal(err)
	}
	s.MarkSeen("new", "u1")

	if err := s.Prune(24 * time.Hour); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if seen, _ := s.Seen("old"); seen {
		t.Error("expired mark survived prune")
	}
	if seen, _ := s.Seen("new"); !seen {
		t.Error("fresh mark dropped by prune")
	}
}

func TestSessions(t *testing.T) {
	s := openTestStore(t)

	id, err := s.StartSession()
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := s.EndSession(id, 7); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	var viewed int
	var ended sql.NullTime
	err = s.db.QueryRow("SELECT stories_viewed, ended_at FROM sessions WHERE id = ?", id).
		Scan(&viewed, &ended)
	if err != nil {
		t.Fatalf("query session: %v", err)
	}
	if viewed != 7 || !ended.Valid {
		t.Errorf("session row: viewed=%d ended=%v", viewed, ended)
	}
}
