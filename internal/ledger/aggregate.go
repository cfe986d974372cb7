package ledger

import (
	"context"
	"fmt"

	"github.com/roach88/waterrun/internal/model"
)

// Aggregate folds the whole run log into one Standing per participant, ordered by id.
func (s *Store) Aggregate(ctx context.Context) ([]model.Standing, error) {
	participants, err := s.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	runs, err := s.queryRuns(ctx, `
		SELECT id, timestamp, mode, actors, points_each
		FROM runs
		ORDER BY timestamp ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	return Fold(participants, runs), nil
}

// Fold computes standings from a roster and runs given in ascending log order.
//
// For every actor present in the roster:
//   - score_override sets the running score to PointsEach
//   - every other mode adds PointsEach
//   - visit modes move LastVisit forward when the run's timestamp is strictly greater
//
// Actors absent from the roster are ignored.
func Fold(participants []model.Participant, runs []model.Run) []model.Standing {
	standings := make([]model.Standing, len(participants))
	index := make(map[int64]int, len(participants))
	for i, p := range participants {
		standings[i] = model.Standing{Participant: p}
		index[p.ID] = i
	}

	for _, run := range runs {
		for _, actor := range run.Actors {
			i, ok := index[actor]
			if !ok {
				continue
			}
			st := &standings[i]
			if run.Mode == model.ModeScoreOverride {
				st.Score = run.PointsEach
			} else {
				st.Score += run.PointsEach
			}
			if !run.Mode.IsVisit() {
				continue
			}
			if st.LastVisit == nil || run.Timestamp > *st.LastVisit {
				ts := run.Timestamp
				st.LastVisit = &ts
			}
		}
	}

	return standings
}
