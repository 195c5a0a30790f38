// Package audit defines the decision record model, the storage contract,
// and the error taxonomy for the Vigil audit trail.
//
// # Decision Records
//
// A DecisionRecord is one immutable, timestamped act of clinical
// interpretation: who decided what, on what evidence, with what
// confidence, when. The trail is append-only — records are never updated
// or deleted once committed, and id assignment is serialized so history
// queries reflect a consistent, monotonic prefix.
//
// # Layers
//
//  1. Storage backends (subpackage storage): SQLite for durable
//     deployments, in-memory for tests and demos
//  2. DecisionLogger (subpackage logger): id and timestamp assignment,
//     synchronous commit-then-acknowledge persistence, history and
//     summary queries
//  3. AuditTrailManager (subpackage trail): validates and authorizes an
//     interpretation event, then delegates persistence to the logger
//  4. Digest (subpackage digest): cron-scheduled summary reporting
//
// # Error Taxonomy
//
// Per-field validation outcomes are structured results, not errors; only
// systemic failures surface as typed errors:
//
//   - ValidationError: malformed input to the audit call itself (bad
//     confidence score, non-finite metric value); nothing is persisted
//   - PermissionError: the actor lacks the required capability; the
//     attempt itself is still persisted as a status=error record
//   - StorageError: the durable store rejected a read or write; fully
//     committed or absent, never half-written
package audit
