package roster

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/waterrun/internal/ledger"
	"github.com/roach88/waterrun/internal/model"
)

// Store is the ledger surface Reconcile needs.
type Store interface {
	ParticipantByName(ctx context.Context, name string) (model.Participant, bool, error)
	UpsertParticipant(ctx context.Context, name, contact string) (model.Participant, bool, error)
	Reset(ctx context.Context, entries []ledger.SeedParticipant, seededAt string) ([]model.Participant, error)
}

// Result describes what Reconcile changed.
type Result struct {
	Seeded       bool     `json:"seeded"`
	Added        []string `json:"added"`
	Participants int      `json:"participants"`
}

// Reconcile brings the ledger in line with r. Running it twice is the same as
// running it once.
func Reconcile(ctx context.Context, st Store, r *Roster, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	_, ok, err := st.ParticipantByName(ctx, r.Marker)
	if err != nil {
		return Result{}, fmt.Errorf("reconcile: %w", err)
	}

	if !ok {
		entries := make([]ledger.SeedParticipant, len(r.Participants))
		for i, p := range r.Participants {
			entries[i] = ledger.SeedParticipant{Name: p.Name, Contact: p.Contact, StartingScore: p.StartingScore}
		}
		seeded, err := st.Reset(ctx, entries, r.SeededAt)
		if err != nil {
			return Result{}, fmt.Errorf("reconcile: %w", err)
		}
		logger.Info("roster seeded", "marker", r.Marker, "participants", len(seeded), "seeded_at", r.SeededAt)
		return Result{Seeded: true, Added: r.Names(), Participants: len(seeded)}, nil
	}

	added := []string{}
	for _, p := range r.Participants {
		_, created, err := st.UpsertParticipant(ctx, p.Name, p.Contact)
		if err != nil {
			return Result{}, fmt.Errorf("reconcile: %w", err)
		}
		if created {
			added = append(added, p.Name)
		}
	}
	if len(added) > 0 {
		logger.Info("roster participants added", "names", added)
	} else {
		logger.Debug("roster up to date", "participants", len(r.Participants))
	}
	return Result{Added: added, Participants: len(r.Participants)}, nil
}
