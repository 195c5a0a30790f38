// Package storage provides persistence backends for decision records.
//
// Two implementations of audit.Storage are available:
//
//   - SQLiteStorage: durable single-node storage with WAL mode, schema
//     versioning, and a timestamp index for windowed summaries
//   - MemoryStorage: map-backed storage for tests and the CLI demo
//
// Both backends are append-only on the audit surface: they expose no
// update or delete operations for decision records.
package storage
