// Package suggest recommends who should do the next water run.
//
// Participants are ranked ascending by (score, last visit); a participant who has
// never gone sorts before every timestamp. The first two ranked participants are
// suggested, except when they are exactly the pair that made the most recent run and
// a third participant exists, in which case the third replaces the second. The
// lookback is a single event and the adjustment is applied at most once.
package suggest

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/waterrun/internal/ledger"
	"github.com/roach88/waterrun/internal/model"
)

// Reasons reported alongside a suggestion.
const (
	ReasonNoParticipants = "No participants found"
	ReasonNotEnough      = "Not enough participants"
	ReasonFairness       = "Lowest scores & longest time since last run"
	RotationNote         = " (rotated to avoid repeat)"
)

// ErrNoParticipants is returned when the roster is empty.
var ErrNoParticipants = errors.New("no participants found")

// Source is the slice of the ledger the engine reads.
type Source interface {
	Aggregate(ctx context.Context) ([]model.Standing, error)
	LatestRun(ctx context.Context) (model.Run, bool, error)
}

// Suggestion is the recommended next pair and why it was chosen.
type Suggestion struct {
	Suggested []model.Standing `json:"suggested"`
	Reason    string           `json:"reason"`
	Rotated   bool             `json:"rotated"`
}

// Engine computes suggestions from a Source.
type Engine struct {
	source Source
	logger *slog.Logger
}

// New creates an Engine. A nil logger uses slog.Default().
func New(source Source, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: source, logger: logger}
}

// Rank returns a copy of standings sorted ascending by score, then last visit.
// A nil LastVisit sorts first. Remaining ties keep their input order.
func Rank(standings []model.Standing) []model.Standing {
	ranked := slices.Clone(standings)
	slices.SortStableFunc(ranked, func(a, b model.Standing) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return compareLastVisit(a.LastVisit, b.LastVisit)
	})
	return ranked
}

func compareLastVisit(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

// Suggest recommends the next pair.
//
// With an empty roster it returns ErrNoParticipants alongside an empty suggestion.
// With a single participant it returns an empty suggestion and ReasonNotEnough.
func (e *Engine) Suggest(ctx context.Context) (Suggestion, error) {
	standings, err := e.source.Aggregate(ctx)
	if err != nil {
		return Suggestion{}, fmt.Errorf("suggest: %w", err)
	}

	switch len(standings) {
	case 0:
		return Suggestion{Suggested: []model.Standing{}, Reason: ReasonNoParticipants}, ErrNoParticipants
	case 1:
		return Suggestion{Suggested: []model.Standing{}, Reason: ReasonNotEnough}, nil
	}

	ranked := Rank(standings)
	s := Suggestion{
		Suggested: []model.Standing{ranked[0], ranked[1]},
		Reason:    ReasonFairness,
	}

	latest, ok, err := e.source.LatestRun(ctx)
	switch {
	case errors.Is(err, ledger.ErrMalformedRecord):
		e.logger.Warn("skipping repeat check", "error", err)
		return s, nil
	case err != nil:
		return Suggestion{}, fmt.Errorf("suggest: %w", err)
	case !ok:
		return s, nil
	}

	if latest.HasActorSet(ranked[0].ID, ranked[1].ID) && len(ranked) > 2 {
		s.Suggested[1] = ranked[2]
		s.Reason += RotationNote
		s.Rotated = true
	}
	return s, nil
}

// Next returns the top-ranked participant regardless of recent history.
func (e *Engine) Next(ctx context.Context) (model.Standing, error) {
	standings, err := e.source.Aggregate(ctx)
	if err != nil {
		return model.Standing{}, fmt.Errorf("next: %w", err)
	}
	if len(standings) == 0 {
		return model.Standing{}, ErrNoParticipants
	}
	return Rank(standings)[0], nil
}
