package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sragops/vigil/pkg/audit"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/decisions_audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements audit.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend. It initializes
// the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "audit.storage.sqlite")

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, audit.NewStorageError("sqlite", "create_directory", err)
		}
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return audit.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return audit.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return audit.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return audit.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return audit.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists one decision record. The INSERT either commits fully or
// fails with a StorageError; the primary key rejects duplicate ids.
func (s *SQLiteStorage) Store(ctx context.Context, record *audit.DecisionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (
			decision_id, decision_type, timestamp, actor_role,
			metric_type, metric_value, threshold_used,
			interpretation, confidence_score, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.DecisionID, record.DecisionType, record.Timestamp, record.ActorRole,
		record.MetricType, record.MetricValue, record.ThresholdUsed,
		record.Interpretation, record.ConfidenceScore, record.Status,
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// History returns up to limit records, most recent first. Ties on
// timestamp are broken by decision id, which is itself time-ordered.
func (s *SQLiteStorage) History(ctx context.Context, limit int) ([]*audit.DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT decision_id, decision_type, timestamp, actor_role,
		       metric_type, metric_value, threshold_used,
		       interpretation, confidence_score, status
		FROM decisions
		ORDER BY timestamp DESC, decision_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "history", err)
	}
	defer rows.Close()

	records := []*audit.DecisionRecord{}
	for rows.Next() {
		var r audit.DecisionRecord
		err := rows.Scan(
			&r.DecisionID, &r.DecisionType, &r.Timestamp, &r.ActorRole,
			&r.MetricType, &r.MetricValue, &r.ThresholdUsed,
			&r.Interpretation, &r.ConfidenceScore, &r.Status,
		)
		if err != nil {
			return nil, audit.NewStorageError("sqlite", "scan", err)
		}
		r.Timestamp = r.Timestamp.UTC()
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "history", err)
	}

	return records, nil
}

// Summary aggregates all records with timestamp >= since. The scan runs on
// the timestamp index; counts by type and status come back in one pass.
func (s *SQLiteStorage) Summary(ctx context.Context, since time.Time) (*audit.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT decision_type, status, COUNT(*)
		FROM decisions
		WHERE timestamp >= ?
		GROUP BY decision_type, status
	`, since)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "summary", err)
	}
	defer rows.Close()

	summary := &audit.Summary{DecisionsByType: map[string]int{}}
	errorCount := 0

	for rows.Next() {
		var decisionType, status string
		var count int
		if err := rows.Scan(&decisionType, &status, &count); err != nil {
			return nil, audit.NewStorageError("sqlite", "scan", err)
		}
		summary.TotalDecisions += count
		summary.DecisionsByType[decisionType] += count
		if status == audit.StatusError {
			errorCount += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "summary", err)
	}

	if summary.TotalDecisions > 0 {
		summary.ErrorRate = 100 * float64(errorCount) / float64(summary.TotalDecisions)
	}

	return summary, nil
}

// Count returns the total number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM decisions").Scan(&count); err != nil {
		return 0, audit.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return audit.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite audit storage closed")
	return nil
}
