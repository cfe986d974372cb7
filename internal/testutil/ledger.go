package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/waterrun/internal/ledger"
	"github.com/roach88/waterrun/internal/model"
)

// NewLedger opens a ledger in a temp directory and closes it when the test ends.
func NewLedger(t testing.TB) *ledger.Store {
	t.Helper()
	st, err := ledger.Open(filepath.Join(t.TempDir(), "waterrun.db"))
	if err != nil {
		t.Fatalf("ledger.Open() failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// AddPeople inserts participants by name, returning them in insertion order.
func AddPeople(t testing.TB, st *ledger.Store, names ...string) []model.Participant {
	t.Helper()
	out := make([]model.Participant, 0, len(names))
	for _, name := range names {
		p, _, err := st.UpsertParticipant(context.Background(), name, "")
		if err != nil {
			t.Fatalf("UpsertParticipant(%q) failed: %v", name, err)
		}
		out = append(out, p)
	}
	return out
}

// InsertRawRun writes a run row with an arbitrary actors column, bypassing marshaling.
func InsertRawRun(t testing.TB, st *ledger.Store, timestamp, actors string) {
	t.Helper()
	_, err := st.DB().Exec(`
		INSERT INTO runs (timestamp, mode, actors, points_each) VALUES (?, 'group', ?, 1)
	`, timestamp, actors)
	if err != nil {
		t.Fatalf("insert raw run failed: %v", err)
	}
}
