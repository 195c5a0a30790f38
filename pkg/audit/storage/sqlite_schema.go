package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit database schema.
// Only additive changes are permitted; decision rows are never updated or
// deleted.
const Schema = `
-- Decision records table (append-only)
CREATE TABLE IF NOT EXISTS decisions (
    decision_id TEXT PRIMARY KEY,
    decision_type TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL,
    actor_role TEXT NOT NULL,

    -- Inputs
    metric_type TEXT NOT NULL,
    metric_value REAL NOT NULL,
    threshold_used REAL NOT NULL,

    -- Outcome
    interpretation TEXT NOT NULL,
    confidence_score REAL NOT NULL,
    status TEXT NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Summaries are commonly windowed ("last 24 hours"), so timestamp is indexed.
CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
CREATE INDEX IF NOT EXISTS idx_decisions_type ON decisions(decision_type);
CREATE INDEX IF NOT EXISTS idx_decisions_status ON decisions(status);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
