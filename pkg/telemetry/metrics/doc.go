// Package metrics provides Prometheus metrics for the guardrails and
// audit subsystems.
//
// Metrics:
//   - vigil_guardrail_checks_total: validation checks by field and outcome
//   - vigil_guardrail_trips_total: guardrail rules fired, by rule
//   - vigil_decisions_total: decision records written, by type and status
//   - vigil_decision_store_duration_seconds: storage commit latency
//
// The collector owns its registry; Handler exposes it for embedding in a
// caller's HTTP mux. All recording methods are safe for concurrent use.
package metrics
