package logger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"sragops/vigil/pkg/audit"
	"sragops/vigil/pkg/telemetry/metrics"
)

// DefaultHistoryLimit is applied when History is called with limit <= 0.
const DefaultHistoryLimit = 100

// MaxHistoryLimit caps the number of records a single History call returns.
const MaxHistoryLimit = 10000

// DecisionLogger persists immutable decision records and answers
// historical queries. It is the only writer to the underlying store.
type DecisionLogger struct {
	storage audit.Storage
	metrics *metrics.Collector
	logger  *slog.Logger

	// mu serializes id and timestamp assignment only; never held across
	// the storage call.
	mu       sync.Mutex
	lastTime time.Time
}

// NewDecisionLogger creates a decision logger over the given storage
// backend. metrics may be nil.
func NewDecisionLogger(storage audit.Storage, collector *metrics.Collector) *DecisionLogger {
	return &DecisionLogger{
		storage: storage,
		metrics: collector,
		logger:  slog.Default().With("component", "audit.logger"),
	}
}

// LogDecision assigns a unique time-ordered id, stamps the UTC timestamp,
// and persists the record. The record is durable and visible to
// subsequent reads before LogDecision returns; on error the record is
// absent, never half-written.
//
// The caller's DecisionID and Timestamp fields are overwritten; records
// are identified by the logger, not the caller.
func (l *DecisionLogger) LogDecision(ctx context.Context, record *audit.DecisionRecord) (string, error) {
	stamped := *record

	l.mu.Lock()
	now := time.Now().UTC()
	if !now.After(l.lastTime) {
		// Clock went backwards or two calls share a tick; keep the
		// timestamp sequence strictly monotonic.
		now = l.lastTime.Add(time.Microsecond)
	}
	l.lastTime = now
	stamped.Timestamp = now
	stamped.DecisionID = newDecisionID()
	l.mu.Unlock()

	start := time.Now()
	if err := l.storage.Store(ctx, &stamped); err != nil {
		l.logger.Error("failed to persist decision record",
			"decision_type", stamped.DecisionType,
			"actor_role", stamped.ActorRole,
			"error", err,
		)
		return "", err
	}

	if l.metrics != nil {
		l.metrics.RecordDecision(stamped.DecisionType, stamped.Status)
		l.metrics.ObserveStoreDuration(time.Since(start))
	}

	l.logger.Debug("decision recorded",
		"decision_id", stamped.DecisionID,
		"decision_type", stamped.DecisionType,
		"status", stamped.Status,
	)

	return stamped.DecisionID, nil
}

// History returns up to limit records, most recent first. A limit <= 0
// uses DefaultHistoryLimit; limits above MaxHistoryLimit are clamped.
func (l *DecisionLogger) History(ctx context.Context, limit int) ([]*audit.DecisionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return l.storage.History(ctx, limit)
}

// Summary aggregates all records with Timestamp >= since.
func (l *DecisionLogger) Summary(ctx context.Context, since time.Time) (*audit.Summary, error) {
	return l.storage.Summary(ctx, since)
}

// newDecisionID returns a time-ordered UUIDv7, falling back to a random
// UUIDv4 if the v7 source fails.
func newDecisionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
