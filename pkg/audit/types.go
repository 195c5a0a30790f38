package audit

import (
	"context"
	"time"
)

// Decision type and status values used across the audit trail.
const (
	// TypeClinicalInterpretation is the decision type for an audited
	// clinical interpretation event.
	TypeClinicalInterpretation = "clinical_interpretation"

	// StatusRecorded marks a decision that completed normally.
	StatusRecorded = "recorded"

	// StatusError marks a decision whose recording captured a failure,
	// such as a rejected permission check.
	StatusError = "error"
)

// DecisionRecord is one audited act of interpretation. Once created it is
// never mutated or deleted; the trail is append-only.
type DecisionRecord struct {
	// DecisionID is globally unique and time-ordered, so "last N" and
	// windowed queries are stable under concurrent writers.
	DecisionID string `json:"decision_id"`

	// DecisionType categorizes the decision (e.g. "clinical_interpretation").
	DecisionType string `json:"decision_type"`

	// Timestamp is the creation time in UTC, stamped by the logger.
	Timestamp time.Time `json:"timestamp"`

	// ActorRole is the authenticated role that triggered the decision.
	ActorRole string `json:"actor_role"`

	// Inputs: the metric under interpretation and the threshold applied.
	MetricType    string  `json:"metric_type"`
	MetricValue   float64 `json:"metric_value"`
	ThresholdUsed float64 `json:"threshold_used"`

	// Interpretation is the free-text conclusion produced by the caller.
	Interpretation string `json:"interpretation"`

	// ConfidenceScore is the caller's confidence in [0.0, 1.0].
	ConfidenceScore float64 `json:"confidence_score"`

	// Status is "recorded" or "error".
	Status string `json:"status"`
}

// Summary aggregates decisions over a time window.
type Summary struct {
	// TotalDecisions is the number of records in the window.
	TotalDecisions int `json:"total_decisions"`

	// ErrorRate is the percentage of records with status "error".
	// Zero when the window is empty.
	ErrorRate float64 `json:"error_rate"`

	// DecisionsByType counts records per decision type.
	DecisionsByType map[string]int `json:"decisions_by_type"`
}

// Storage is the contract for decision record persistence. Implementations
// must be safe for concurrent use and must commit a record fully or not at
// all — a Store that returns nil guarantees the record is durable and
// visible to subsequent reads.
//
// The interface deliberately has no update or delete: the trail is
// append-only.
type Storage interface {
	// Store persists one decision record.
	Store(ctx context.Context, record *DecisionRecord) error

	// History returns up to limit records, most recent first.
	History(ctx context.Context, limit int) ([]*DecisionRecord, error)

	// Summary aggregates all records with Timestamp >= since.
	Summary(ctx context.Context, since time.Time) (*Summary, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}
