package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/waterrun/internal/model"
	"github.com/roach88/waterrun/internal/notify"
	"github.com/roach88/waterrun/internal/suggest"
)

// History paging bounds.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// Ledger is the storage the tracker needs.
type Ledger interface {
	suggest.Source
	AppendRun(ctx context.Context, run model.Run) (model.Run, error)
	ListParticipants(ctx context.Context) ([]model.Participant, error)
	ListRuns(ctx context.Context, limit, offset int) ([]model.Run, error)
	ListAllRuns(ctx context.Context) ([]model.Run, error)
	CountRuns(ctx context.Context) (int, error)
}

// Metrics receives operation counters. The zero Tracker uses a no-op.
type Metrics interface {
	RunRecorded(mode model.Mode)
	Notified(outcome notify.Outcome)
}

type noopMetrics struct{}

func (noopMetrics) RunRecorded(model.Mode)  {}
func (noopMetrics) Notified(notify.Outcome) {}

// Tracker implements the boundary operations.
type Tracker struct {
	ledger   Ledger
	engine   *suggest.Engine
	notifier notify.Notifier
	clock    model.Clock
	metrics  Metrics
	logger   *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the wall clock used to stamp new runs.
func WithClock(c model.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// New creates a Tracker.
func New(ledger Ledger, notifier notify.Notifier, opts ...Option) *Tracker {
	t := &Tracker{
		ledger:   ledger,
		notifier: notifier,
		clock:    model.SystemClock{},
		metrics:  noopMetrics{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.engine = suggest.New(ledger, t.logger)
	return t
}

// State is the current leaderboard.
type State struct {
	People    []model.Standing `json:"people"`
	TotalRuns int              `json:"total_runs"`
}

// State returns every participant's standing plus the total event count.
func (t *Tracker) State(ctx context.Context) (State, error) {
	standings, err := t.ledger.Aggregate(ctx)
	if err != nil {
		return State{}, fmt.Errorf("state: %w", err)
	}
	total, err := t.ledger.CountRuns(ctx)
	if err != nil {
		return State{}, fmt.Errorf("state: %w", err)
	}
	return State{People: standings, TotalRuns: total}, nil
}

// RecordRequest asks to record a run.
type RecordRequest struct {
	Actors []int64 `json:"actors"`
	Mode   string  `json:"mode"`
}

// RecordResult is the outcome of RecordRun.
type RecordResult struct {
	Success      bool           `json:"success"`
	Run          model.Run      `json:"run"`
	NewState     State          `json:"new_state"`
	Notification notify.Outcome `json:"notification"`
}

// PointsFor validates mode against the actor count and returns the points each
// actor earns.
func PointsFor(mode string, actorCount int) (model.Mode, int, error) {
	switch model.Mode(mode) {
	case model.ModeAlone:
		if actorCount != 1 {
			return "", 0, invalid("actors", "alone mode requires exactly 1 actor, got %d", actorCount)
		}
		return model.ModeAlone, model.AlonePoints, nil
	case model.ModeGroup:
		if actorCount < 2 {
			return "", 0, invalid("actors", "group mode requires at least 2 actors, got %d", actorCount)
		}
		return model.ModeGroup, model.GroupPoints, nil
	default:
		return "", 0, invalid("mode", "%q is not one of alone, group", mode)
	}
}

// RecordRun validates and appends a run, then notifies who is next.
// The run stays recorded whatever happens to the notification.
func (t *Tracker) RecordRun(ctx context.Context, req RecordRequest) (RecordResult, error) {
	actors := actorSet(req.Actors)
	mode, points, err := PointsFor(req.Mode, len(actors))
	if err != nil {
		return RecordResult{}, err
	}

	run, err := t.ledger.AppendRun(ctx, model.Run{
		Timestamp:  model.FormatTimestamp(t.clock.Now()),
		Mode:       mode,
		Actors:     actors,
		PointsEach: points,
	})
	if err != nil {
		return RecordResult{}, fmt.Errorf("record run: %w", err)
	}
	t.metrics.RunRecorded(mode)
	t.logger.Info("run recorded", "run_id", run.ID, "mode", mode, "actors", run.Actors)

	state, err := t.State(ctx)
	if err != nil {
		return RecordResult{}, fmt.Errorf("record run: %w", err)
	}

	names := make(map[int64]string, len(state.People))
	for _, p := range state.People {
		names[p.ID] = p.Name
	}
	var next notify.Recipient
	if ranked := suggest.Rank(state.People); len(ranked) > 0 {
		next = notify.Recipient{Name: ranked[0].Name, Contact: ranked[0].Contact}
	}
	outcome := t.notifier.Notify(ctx, model.ResolveNames(run.Actors, names), next)
	t.metrics.Notified(outcome)

	return RecordResult{
		Success:      true,
		Run:          run,
		NewState:     state,
		Notification: outcome,
	}, nil
}

// actorSet returns the distinct actor ids in ascending order.
func actorSet(ids []int64) []int64 {
	set := slices.Clone(ids)
	slices.Sort(set)
	return slices.Compact(set)
}

// History returns one page of runs, newest first. Pages are 1-based and a page
// below 1 reads as page 1. A page past the end, or a limit below 1, is empty.
func (t *Tracker) History(ctx context.Context, page, limit int) ([]model.RunView, error) {
	if limit > MaxHistoryLimit {
		return nil, invalid("limit", "must be at most %d, got %d", MaxHistoryLimit, limit)
	}
	if limit < 1 {
		return []model.RunView{}, nil
	}
	page = max(page, 1)

	runs, err := t.ledger.ListRuns(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	names, err := t.names(ctx)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return views(runs, names), nil
}

// Suggest recommends the next pair.
func (t *Tracker) Suggest(ctx context.Context) (suggest.Suggestion, error) {
	return t.engine.Suggest(ctx)
}

// RemindResult is the outcome of Remind.
type RemindResult struct {
	Next         model.Standing `json:"next"`
	Notification notify.Outcome `json:"notification"`
}

// Remind notifies the top-ranked participant that they are up next, regardless
// of the most recent run.
func (t *Tracker) Remind(ctx context.Context) (RemindResult, error) {
	next, err := t.engine.Next(ctx)
	if err != nil {
		return RemindResult{}, err
	}
	outcome := t.notifier.Notify(ctx, nil, notify.Recipient{Name: next.Name, Contact: next.Contact})
	t.metrics.Notified(outcome)
	return RemindResult{Next: next, Notification: outcome}, nil
}

// NotifierStatus reports whether the notification channel is enabled and configured.
func (t *Tracker) NotifierStatus() notify.Status {
	return t.notifier.Status()
}

// ErrUnknownParticipant is wrapped by errors about ids missing from the roster.
var ErrUnknownParticipant = errors.New("unknown participant")

// OverrideScore appends a score_override event setting participantID's score to
// score from this point of the log onward.
func (t *Tracker) OverrideScore(ctx context.Context, participantID int64, score int) (State, error) {
	if score < 0 {
		return State{}, invalid("score", "must not be negative, got %d", score)
	}
	names, err := t.names(ctx)
	if err != nil {
		return State{}, fmt.Errorf("override score: %w", err)
	}
	if _, ok := names[participantID]; !ok {
		return State{}, &ValidationError{
			Field:   "participant_id",
			Message: fmt.Sprintf("unknown participant %d", participantID),
			Err:     ErrUnknownParticipant,
		}
	}

	run, err := t.ledger.AppendRun(ctx, model.Run{
		Timestamp:  model.FormatTimestamp(t.clock.Now()),
		Mode:       model.ModeScoreOverride,
		Actors:     []int64{participantID},
		PointsEach: score,
	})
	if err != nil {
		return State{}, fmt.Errorf("override score: %w", err)
	}
	t.metrics.RunRecorded(model.ModeScoreOverride)
	t.logger.Info("score overridden", "run_id", run.ID, "participant_id", participantID, "score", score)

	return t.State(ctx)
}

func (t *Tracker) names(ctx context.Context) (map[int64]string, error) {
	participants, err := t.ledger.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}
	return names, nil
}

func views(runs []model.Run, names map[int64]string) []model.RunView {
	out := make([]model.RunView, len(runs))
	for i, r := range runs {
		out[i] = model.RunView{Run: r, ActorNames: model.ResolveNames(r.Actors, names)}
	}
	return out
}
