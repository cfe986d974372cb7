// Package roster declares the starting roster as CUE data and reconciles the
// ledger against it at startup.
//
// A roster names the participants, their contacts and starting scores, a marker
// participant, and the timestamp used for backdated legacy_import events. When
// the marker is missing from the ledger the roster and run log are reset to the
// declared set in one transaction. Otherwise missing participants are added and
// contacts refreshed, leaving the run log untouched.
package roster
