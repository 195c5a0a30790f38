// Package trail provides the AuditTrailManager, the orchestration façade
// for auditing clinical interpretation events.
//
// A single audited action moves through
//
//	Requested → Validated → Recorded
//
// or, when rejected,
//
//	Requested → Rejected → Recorded-as-error
//
// Pure input validation failures (confidence score or metric value out of
// domain) raise before any persistence attempt. Permission denials are the
// one rejection that still produces a record: the attempt itself must be
// auditable even when refused.
package trail
