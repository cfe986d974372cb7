// Package model defines the shared types of the water-run tracker.
//
// The data model is deliberately small:
//   - Participant: a roster member with a stable integer id and a unique display name
//   - Run: an immutable event crediting one or more participants with points
//   - Standing: a participant's derived score and last visit, folded from the run log
//
// Standings are never stored. They are recomputed from the run log on every read.
//
// # Timestamps
//
// Timestamps are fixed-width ISO-8601 UTC strings (see TimestampLayout). Because the
// width never varies, lexicographic string order equals chronological order, which
// lets both SQL ORDER BY and in-memory comparisons work on the raw text.
package model
