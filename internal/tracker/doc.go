// Package tracker orchestrates the water-run operations on top of the ledger,
// the suggestion engine and the notifier.
//
// Each operation reads or appends through the ledger and returns. There is no
// shared mutable state between calls and no locking: two concurrent RecordRun calls
// both append and both count.
//
// Run recording enforces the mode policy before anything touches storage:
//   - alone: exactly one actor, 2 points
//   - group: two or more actors, 1 point each
//
// Violations are reported as *ValidationError. Notification failures never fail
// an operation; they are returned as data next to the result.
package tracker
