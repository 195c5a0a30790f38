// Package guardrails provides validation and security controls for medical
// metric payloads flowing through the SRAG analytics pipeline.
//
// # Overview
//
// The guardrails engine composes four checks into a single entry point:
//
//   - Input sanitization: rejects SQL control sequences, markup/script
//     injection markers, and characters outside the declared class
//   - Range validation: numeric fields must fall within domain-plausible
//     bounds (rates in [0,100], age in [0,130])
//   - Access control: role-based, deny-by-default permission checks
//   - Rate limiting: per-(operation, actor) call quotas
//
// # Validation Results
//
// Every check produces a ValidationResult with a stable guardrail
// identifier when a rule fires, so callers can assert on cause rather
// than message text:
//
//	engine := guardrails.NewEngine(sanitizer, access, limiter, nil)
//	results := engine.ValidateMedicalData(payload, "data_analyst")
//	for _, r := range results {
//	    if !r.IsValid {
//	        log.Printf("field %s rejected: %s (%s)", r.Field, r.Message, r.GuardrailTriggered)
//	    }
//	}
//
// Results are returned in payload declaration order, one per field, and
// validation never short-circuits: callers always receive a complete
// picture in one call.
//
// # Reject, Don't Repair
//
// The sanitizer rejects suspicious input instead of stripping it. A
// silently "cleaned" value would corrupt audit semantics; the system must
// be able to prove what was rejected and why.
//
// # Thread Safety
//
// The sanitizer and access controller are immutable after construction and
// safe for unbounded concurrent use. Rate limit state is owned by the
// ratelimit subpackage and mutated under per-key locking.
package guardrails
