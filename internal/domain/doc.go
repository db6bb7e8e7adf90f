// Package domain models coastal threat alert dispatch data.
//
// # Data Sources
//
// Two tabular files drive the pipeline. The schedule source lists events
// and their trigger times, one row per event. The enrichment source
// carries delivery details for the same IDs: recipient phone number,
// threat type, location, severity level, and the free-text alert message.
// Both files are maintained out-of-band by operators and re-read in full
// on every poll, so edits take effect on the next tick without a restart.
//
// Column names are whitespace-trimmed before lookup because spreadsheet
// exports routinely pad headers.
//
// # Trigger Times
//
// Trigger timestamps are compared against the poller's local wall clock.
// Spreadsheet exports carry naive timestamps, so layouts without a zone
// offset are parsed in local time. See [ParseTriggerTime].
//
// # Dispatch Semantics
//
// A schedule row is dispatched at most once per process lifetime: the
// poller records each dispatched ID in an in-memory triggered set that is
// never persisted. A restart therefore re-dispatches rows whose trigger
// time is still in the past.
package domain
