// Package ledger provides SQLite-backed durable storage for the water-run log.
//
// The ledger holds two tables:
//   - people: the participant roster (stable integer id, unique name, contact)
//   - runs: the append-only event log (timestamp, mode, actor ids as JSON, points each)
//
// # Append-only
//
// Run rows are never updated. A trigger rejects UPDATE on runs. The only path that
// deletes rows is Reset, used by the startup roster seed.
//
// # Ordering
//
// Reads that present history use ORDER BY timestamp DESC, id DESC so that events
// sharing a timestamp are listed newest-inserted first. Aggregation folds in
// ascending order so score overrides apply at their position in the log.
//
// # Malformed rows
//
// A run row whose actor list does not parse is skipped by every read that returns
// many rows. A single corrupt row never blocks a listing or an aggregate. Storage
// errors, in contrast, are always returned to the caller.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package ledger
