package model

// Mode identifies how a run event was produced.
type Mode string

const (
	// ModeAlone is a run performed by a single participant.
	ModeAlone Mode = "alone"

	// ModeGroup is a run performed by two or more participants together.
	ModeGroup Mode = "group"

	// ModeLegacyImport carries a starting score written by the roster seed.
	ModeLegacyImport Mode = "legacy_import"

	// ModeCorrection is an additive adjustment written by older databases.
	// It is read and folded but never written.
	ModeCorrection Mode = "correction"

	// ModeScoreOverride sets each credited actor's score to PointsEach absolutely.
	ModeScoreOverride Mode = "score_override"
)

// Points awarded per actor for the recordable modes.
const (
	AlonePoints = 2
	GroupPoints = 1
)

// UnknownName is displayed for actor ids that no longer resolve to a participant.
const UnknownName = "Unknown"

// IsVisit reports whether events of this mode count as a visit for last-visit tracking.
func (m Mode) IsVisit() bool {
	return m != ModeScoreOverride
}

// Participant is a roster member.
type Participant struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// Run is an immutable event in the ledger.
type Run struct {
	ID         int64   `json:"id"`
	Timestamp  string  `json:"timestamp"`
	Mode       Mode    `json:"mode"`
	Actors     []int64 `json:"actors"`
	PointsEach int     `json:"points_each"`
}

// HasActorSet reports whether the run's actors, as an unordered set, equal ids.
func (r Run) HasActorSet(ids ...int64) bool {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	got := make(map[int64]struct{}, len(r.Actors))
	for _, id := range r.Actors {
		got[id] = struct{}{}
	}
	if len(want) != len(got) {
		return false
	}
	for id := range want {
		if _, ok := got[id]; !ok {
			return false
		}
	}
	return true
}

// Standing is a participant together with state derived from the run log.
// LastVisit is nil for participants with no visits.
type Standing struct {
	Participant
	Score     int     `json:"score"`
	LastVisit *string `json:"last_visit"`
}

// RunView is a run with its actor ids resolved to display names.
type RunView struct {
	Run
	ActorNames []string `json:"actor_names"`
}

// ResolveNames maps actor ids to display names, falling back to UnknownName.
func ResolveNames(actors []int64, names map[int64]string) []string {
	out := make([]string, len(actors))
	for i, id := range actors {
		name, ok := names[id]
		if !ok {
			name = UnknownName
		}
		out[i] = name
	}
	return out
}
