package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/waterrun/internal/model"
)

// AppendRun writes a new immutable run event and returns it with its assigned id.
//
// No validation is performed beyond storage constraints: callers enforce the
// actor-count and points policy for the mode before invoking this.
func (s *Store) AppendRun(ctx context.Context, run model.Run) (model.Run, error) {
	actorsJSON, err := marshalActors(run.Actors)
	if err != nil {
		return model.Run{}, fmt.Errorf("append run: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (timestamp, mode, actors, points_each)
		VALUES (?, ?, ?, ?)
	`,
		run.Timestamp,
		string(run.Mode),
		actorsJSON,
		run.PointsEach,
	)
	if err != nil {
		return model.Run{}, fmt.Errorf("append run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Run{}, fmt.Errorf("append run: last insert id: %w", err)
	}
	run.ID = id
	return run, nil
}

// UpsertParticipant ensures a participant named name exists with the given contact.
// Returns the stored participant and whether it was newly created.
func (s *Store) UpsertParticipant(ctx context.Context, name, contact string) (p model.Participant, created bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Participant{}, false, fmt.Errorf("upsert participant: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO people (name, contact)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, contact)
	if err != nil {
		return model.Participant{}, false, fmt.Errorf("upsert participant: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Participant{}, false, fmt.Errorf("upsert participant: rows affected: %w", err)
	}
	created = rowsAffected > 0

	if !created {
		if _, err := tx.ExecContext(ctx, `
			UPDATE people SET contact = ? WHERE name = ? AND contact != ?
		`, contact, name, contact); err != nil {
			return model.Participant{}, false, fmt.Errorf("upsert participant: update contact: %w", err)
		}
	}

	p, err = scanParticipantRow(tx.QueryRowContext(ctx, `
		SELECT id, name, contact FROM people WHERE name = ?
	`, name))
	if err != nil {
		return model.Participant{}, false, fmt.Errorf("upsert participant: select: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Participant{}, false, fmt.Errorf("upsert participant: commit: %w", err)
	}
	return p, created, nil
}

// SeedParticipant is one roster entry written by Reset.
type SeedParticipant struct {
	Name          string
	Contact       string
	StartingScore int
}

// Reset replaces the roster and the run log with a fixed starting set in a single
// transaction. Participants receive ids in the order given. Each participant with a
// positive starting score gets one legacy_import event stamped seededAt.
//
// Reset is the only operation that deletes runs. It exists for the startup seed.
func (s *Store) Reset(ctx context.Context, entries []SeedParticipant, seededAt string) ([]model.Participant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("reset: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM runs", "DELETE FROM people"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("reset: %s: %w", stmt, err)
		}
	}

	participants := make([]model.Participant, 0, len(entries))
	for _, e := range entries {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO people (name, contact) VALUES (?, ?)
		`, e.Name, e.Contact)
		if err != nil {
			return nil, fmt.Errorf("reset: insert %q: %w", e.Name, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reset: last insert id: %w", err)
		}
		participants = append(participants, model.Participant{ID: id, Name: e.Name, Contact: e.Contact})

		if e.StartingScore <= 0 {
			continue
		}
		actorsJSON, err := marshalActors([]int64{id})
		if err != nil {
			return nil, fmt.Errorf("reset: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO runs (timestamp, mode, actors, points_each)
			VALUES (?, ?, ?, ?)
		`, seededAt, string(model.ModeLegacyImport), actorsJSON, e.StartingScore); err != nil {
			return nil, fmt.Errorf("reset: legacy import for %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("reset: commit: %w", err)
	}
	return participants, nil
}

func scanParticipantRow(row *sql.Row) (model.Participant, error) {
	var p model.Participant
	if err := row.Scan(&p.ID, &p.Name, &p.Contact); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Participant{}, err
		}
		return model.Participant{}, fmt.Errorf("scan participant: %w", err)
	}
	return p, nil
}
