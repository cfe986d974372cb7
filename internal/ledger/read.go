package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/waterrun/internal/model"
)

// ListParticipants returns the roster ordered by id.
// Returns an empty slice (not nil) when the roster is empty.
func (s *Store) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, contact FROM people ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	participants := []model.Participant{}
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Contact); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return participants, nil
}

// ParticipantByName looks up a participant by exact display name.
// The boolean is false when no such participant exists.
func (s *Store) ParticipantByName(ctx context.Context, name string) (model.Participant, bool, error) {
	p, err := scanParticipantRow(s.db.QueryRowContext(ctx, `
		SELECT id, name, contact FROM people WHERE name = ?
	`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Participant{}, false, nil
	}
	if err != nil {
		return model.Participant{}, false, fmt.Errorf("participant by name: %w", err)
	}
	return p, true, nil
}

// ListRuns returns one page of the run log, newest first.
// Malformed rows inside the page are skipped, so a page may be shorter than limit.
// An offset past the end yields an empty slice.
func (s *Store) ListRuns(ctx context.Context, limit, offset int) ([]model.Run, error) {
	return s.queryRuns(ctx, `
		SELECT id, timestamp, mode, actors, points_each
		FROM runs
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
}

// ListAllRuns returns the whole run log, newest first, skipping malformed rows.
func (s *Store) ListAllRuns(ctx context.Context) ([]model.Run, error) {
	return s.queryRuns(ctx, `
		SELECT id, timestamp, mode, actors, points_each
		FROM runs
		ORDER BY timestamp DESC, id DESC
	`)
}

// LatestRun returns the most recent run event.
// The boolean is false when the log is empty. If the latest row's actor list does
// not parse, the returned error wraps ErrMalformedRecord.
func (s *Store) LatestRun(ctx context.Context) (model.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, mode, actors, points_each
		FROM runs
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`)

	var (
		run        model.Run
		mode       string
		actorsJSON string
	)
	if err := row.Scan(&run.ID, &run.Timestamp, &mode, &actorsJSON, &run.PointsEach); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Run{}, false, nil
		}
		return model.Run{}, false, fmt.Errorf("latest run: %w", err)
	}
	run.Mode = model.Mode(mode)

	actors, err := unmarshalActors(actorsJSON)
	if err != nil {
		return model.Run{}, false, fmt.Errorf("latest run %d: %w", run.ID, err)
	}
	run.Actors = actors
	return run, true, nil
}

// CountRuns returns the number of stored run rows, malformed ones included.
func (s *Store) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]model.Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []model.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if errors.Is(err, ErrMalformedRecord) {
			s.logger.Warn("skipping malformed run", "run_id", run.ID, "error", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// scanRun scans a row into a Run. On a malformed actor list the returned Run still
// carries its id so the caller can report which row was skipped.
func scanRun(rows *sql.Rows) (model.Run, error) {
	var (
		run        model.Run
		mode       string
		actorsJSON string
	)
	if err := rows.Scan(&run.ID, &run.Timestamp, &mode, &actorsJSON, &run.PointsEach); err != nil {
		return model.Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Mode = model.Mode(mode)

	actors, err := unmarshalActors(actorsJSON)
	if err != nil {
		return model.Run{ID: run.ID}, err
	}
	run.Actors = actors
	return run, nil
}
