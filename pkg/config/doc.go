// Package config loads and validates the Vigil configuration.
//
// Configuration comes from a single YAML file, with defaults applied for
// anything unset and environment variable overrides in the
// VIGIL_SECTION_FIELD form (e.g. VIGIL_AUDIT_PATH). The loading sequence
// is load → defaults → env overrides → validate.
//
// Policy tables, rate quotas, and sanitizer denylists are consumed once at
// process start and are immutable afterwards. The Watcher reports on-disk
// edits to the config file so an operator knows a restart is required; it
// never hot-reloads.
package config
