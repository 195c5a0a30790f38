package trail

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"sragops/vigil/pkg/audit"
	"sragops/vigil/pkg/audit/logger"
	"sragops/vigil/pkg/guardrails"
)

// InterpretationRequest describes one clinical interpretation event to be
// audited.
type InterpretationRequest struct {
	// MetricType names the metric that was interpreted (e.g. "mortality_rate").
	MetricType string

	// MetricValue is the metric value the interpretation was based on.
	MetricValue float64

	// ThresholdUsed is the threshold the value was compared against.
	ThresholdUsed float64

	// Interpretation is the free-text conclusion produced by the caller.
	Interpretation string

	// ConfidenceScore is the caller's confidence, in [0.0, 1.0].
	ConfidenceScore float64

	// UserRole is the authenticated role that made the interpretation.
	UserRole string
}

// Manager builds decision records for clinical interpretation events and
// delegates persistence to the DecisionLogger. It holds no record state of
// its own.
type Manager struct {
	decisions *logger.DecisionLogger
	access    *guardrails.AccessController
	logger    *slog.Logger
}

// NewManager creates an audit trail manager.
func NewManager(decisions *logger.DecisionLogger, access *guardrails.AccessController) *Manager {
	return &Manager{
		decisions: decisions,
		access:    access,
		logger:    slog.Default().With("component", "audit.trail"),
	}
}

// AuditClinicalInterpretation validates and authorizes the interpretation
// event, persists one decision record, and returns its id.
//
// Input validation failures return a ValidationError and persist nothing.
// Permission denials persist a status=error record and then return a
// PermissionError; once the record has committed it exists regardless of
// what the caller does with the returned error.
func (m *Manager) AuditClinicalInterpretation(ctx context.Context, req InterpretationRequest) (string, error) {
	if req.ConfidenceScore < 0 || req.ConfidenceScore > 1 || math.IsNaN(req.ConfidenceScore) {
		return "", audit.NewValidationError("confidence_score",
			fmt.Sprintf("confidence score %g is outside [0.0, 1.0]", req.ConfidenceScore))
	}
	if math.IsNaN(req.MetricValue) || math.IsInf(req.MetricValue, 0) {
		return "", audit.NewValidationError("metric_value",
			fmt.Sprintf("metric value %g is not a finite number", req.MetricValue))
	}

	record := &audit.DecisionRecord{
		DecisionType:    audit.TypeClinicalInterpretation,
		ActorRole:       req.UserRole,
		MetricType:      req.MetricType,
		MetricValue:     req.MetricValue,
		ThresholdUsed:   req.ThresholdUsed,
		Interpretation:  req.Interpretation,
		ConfidenceScore: req.ConfidenceScore,
		Status:          audit.StatusRecorded,
	}

	if access := m.access.CheckPermission(req.UserRole, guardrails.OpRecordInterpretation); !access.IsValid {
		// The denial itself is auditable.
		record.Status = audit.StatusError
		record.Interpretation = fmt.Sprintf("DENIED: %s", access.Message)

		if _, err := m.decisions.LogDecision(ctx, record); err != nil {
			m.logger.Error("failed to record denied interpretation attempt",
				"role", req.UserRole,
				"error", err,
			)
			return "", err
		}

		return "", audit.NewPermissionError(req.UserRole, guardrails.OpRecordInterpretation)
	}

	id, err := m.decisions.LogDecision(ctx, record)
	if err != nil {
		return "", err
	}

	m.logger.Info("clinical interpretation audited",
		"decision_id", id,
		"metric_type", req.MetricType,
		"actor_role", req.UserRole,
	)

	return id, nil
}

// AuditSummary aggregates the trail over the trailing window of the given
// number of hours.
func (m *Manager) AuditSummary(ctx context.Context, hours int) (*audit.Summary, error) {
	if hours <= 0 {
		hours = 24
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	return m.decisions.Summary(ctx, since)
}

// History returns up to limit records, most recent first. Exposed for the
// CLI and report pipeline, which never touch the store directly.
func (m *Manager) History(ctx context.Context, limit int) ([]*audit.DecisionRecord, error) {
	return m.decisions.History(ctx, limit)
}
