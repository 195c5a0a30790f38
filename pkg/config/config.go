package config

import "time"

// Config is the root configuration structure for Vigil. It covers the
// guardrails engine (field descriptors, sanitizer denylists, access
// policy, rate quotas), the audit trail (storage backend, digest
// schedule), and telemetry.
type Config struct {
	// Logging configures the process-wide structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics collection.
	Metrics MetricsConfig `yaml:"metrics"`

	// Guardrails configures field validation and input sanitization.
	Guardrails GuardrailsConfig `yaml:"guardrails"`

	// Access is the role → permitted operations table. Loaded once at
	// process start; there is no dynamic grant or revoke.
	Access map[string][]string `yaml:"access"`

	// RateLimits configures per-operation call quotas.
	RateLimits RateLimitsConfig `yaml:"rate_limits"`

	// Audit configures decision record storage and the digest job.
	Audit AuditConfig `yaml:"audit"`
}

// LoggingConfig contains configuration for the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json" or "text").
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains configuration for Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "vigil"
	Namespace string `yaml:"namespace"`

	// ListenAddress is where "vigil run" serves the /metrics endpoint.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`
}

// GuardrailsConfig contains configuration for the validation engine.
type GuardrailsConfig struct {
	// Fields declares the payload fields the engine accepts. Empty uses
	// the built-in SRAG metric descriptors.
	Fields []FieldConfig `yaml:"fields"`

	// Sanitizer supplies the injection denylists. Empty lists use the
	// built-in patterns.
	Sanitizer SanitizerConfig `yaml:"sanitizer"`
}

// FieldConfig declares one payload field descriptor.
type FieldConfig struct {
	// Name is the payload field name.
	Name string `yaml:"name"`

	// Min and Max bound the plausible value range, inclusive.
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`

	// Operation is the permission required to submit the field.
	Operation string `yaml:"operation"`
}

// SanitizerConfig contains the sanitizer denylist patterns.
type SanitizerConfig struct {
	// SQLPatterns are regular expressions matching SQL control sequences.
	SQLPatterns []string `yaml:"sql_patterns"`

	// ScriptPatterns are regular expressions matching markup/script
	// injection markers.
	ScriptPatterns []string `yaml:"script_patterns"`
}

// RateLimitsConfig contains configuration for the rate limiter.
type RateLimitsConfig struct {
	// Quotas maps operation names to call budgets. Empty uses the
	// built-in quotas; operations without a quota are unlimited.
	Quotas map[string]QuotaConfig `yaml:"quotas"`

	// StorePath is the SQLite file for durable window state. Empty keeps
	// counters in memory only.
	StorePath string `yaml:"store_path"`

	// SweepInterval is how often expired windows are pruned from memory.
	// Zero disables the background sweeper.
	// Default: 5m
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// QuotaConfig is the call budget for one operation.
type QuotaConfig struct {
	// MaxCalls is the number of calls permitted per window.
	MaxCalls int `yaml:"max_calls"`

	// Window is the duration of the fixed window.
	Window time.Duration `yaml:"window"`
}

// AuditConfig contains configuration for the audit trail.
type AuditConfig struct {
	// Backend selects the storage backend ("sqlite" or "memory").
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	// Default: "data/decisions_audit.db"
	Path string `yaml:"path"`

	// Digest configures the scheduled audit digest.
	Digest DigestConfig `yaml:"digest"`
}

// DigestConfig contains configuration for the audit digest job.
type DigestConfig struct {
	// Schedule is a standard cron expression. Empty disables the digest.
	Schedule string `yaml:"schedule"`

	// WindowHours is the trailing window each digest covers.
	// Default: 24
	WindowHours int `yaml:"window_hours"`
}
