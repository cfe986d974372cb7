package ledger

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/waterrun/internal/model"
)

// createTestStore creates a new store backed by a temp file.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// addPeople inserts participants by name and returns them in insertion order.
func addPeople(t *testing.T, s *Store, names ...string) []model.Participant {
	t.Helper()
	out := make([]model.Participant, 0, len(names))
	for _, name := range names {
		p, _, err := s.UpsertParticipant(context.Background(), name, "")
		if err != nil {
			t.Fatalf("UpsertParticipant(%q) failed: %v", name, err)
		}
		out = append(out, p)
	}
	return out
}

// ts returns a fixed-width timestamp on 2025-01-01 at the given minute.
func ts(minute int) string {
	return fmt.Sprintf("2025-01-01T00:%02d:00.000000Z", minute)
}

// appendRun appends a run and fails the test on error.
func appendRun(t *testing.T, s *Store, timestamp string, mode model.Mode, points int, actors ...int64) model.Run {
	t.Helper()
	run, err := s.AppendRun(context.Background(), model.Run{
		Timestamp:  timestamp,
		Mode:       mode,
		Actors:     actors,
		PointsEach: points,
	})
	if err != nil {
		t.Fatalf("AppendRun() failed: %v", err)
	}
	return run
}

// insertRawRun writes a run row with an arbitrary actors column.
func insertRawRun(t *testing.T, s *Store, timestamp, actors string) {
	t.Helper()
	_, err := s.db.Exec(`
		INSERT INTO runs (timestamp, mode, actors, points_each) VALUES (?, 'group', ?, 1)
	`, timestamp, actors)
	if err != nil {
		t.Fatalf("insert raw run failed: %v", err)
	}
}
