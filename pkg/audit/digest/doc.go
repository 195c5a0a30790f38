// Package digest emits periodic audit summaries on a cron schedule.
//
// The digest job aggregates the trailing window (default 24 hours) and
// logs total decisions, error rate, and per-type counts. It reads through
// the DecisionLogger like any other consumer; it never writes to or
// prunes the store — the trail is append-only.
package digest
