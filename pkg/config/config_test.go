package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vigil.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

// TestLoadConfig tests loading a full configuration file.
func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: debug
  format: json
metrics:
  enabled: true
  namespace: vigil_test
guardrails:
  fields:
    - name: mortality_rate
      min: 0
      max: 100
      operation: read_database
access:
  data_analyst:
    - read_database
    - record_interpretation
rate_limits:
  quotas:
    database_query:
      max_calls: 3
      window: 1m
audit:
  backend: memory
  digest:
    schedule: "0 6 * * *"
    window_hours: 12
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Metrics.Namespace != "vigil_test" {
		t.Errorf("Expected namespace vigil_test, got %q", cfg.Metrics.Namespace)
	}
	if len(cfg.Guardrails.Fields) != 1 || cfg.Guardrails.Fields[0].Name != "mortality_rate" {
		t.Errorf("Unexpected fields: %+v", cfg.Guardrails.Fields)
	}
	if ops := cfg.Access["data_analyst"]; len(ops) != 2 {
		t.Errorf("Expected 2 operations for data_analyst, got %v", ops)
	}
	q := cfg.RateLimits.Quotas["database_query"]
	if q.MaxCalls != 3 || q.Window != time.Minute {
		t.Errorf("Unexpected quota: %+v", q)
	}
	if cfg.Audit.Backend != "memory" {
		t.Errorf("Expected memory backend, got %q", cfg.Audit.Backend)
	}
	if cfg.Audit.Digest.Schedule != "0 6 * * *" || cfg.Audit.Digest.WindowHours != 12 {
		t.Errorf("Unexpected digest config: %+v", cfg.Audit.Digest)
	}
}

// TestLoadConfig_Defaults tests that an empty file yields the defaults.
func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Unexpected default logging: %+v", cfg.Logging)
	}
	if cfg.Metrics.Namespace != "vigil" {
		t.Errorf("Expected default namespace vigil, got %q", cfg.Metrics.Namespace)
	}
	if cfg.Metrics.ListenAddress != "127.0.0.1:9464" {
		t.Errorf("Expected default listen address, got %q", cfg.Metrics.ListenAddress)
	}
	if cfg.Audit.Backend != "sqlite" || cfg.Audit.Path != "data/decisions_audit.db" {
		t.Errorf("Unexpected default audit config: %+v", cfg.Audit)
	}
	if cfg.Audit.Digest.WindowHours != 24 {
		t.Errorf("Expected default digest window 24, got %d", cfg.Audit.Digest.WindowHours)
	}
	if cfg.RateLimits.SweepInterval != 5*time.Minute {
		t.Errorf("Expected default sweep interval 5m, got %v", cfg.RateLimits.SweepInterval)
	}
}

// TestLoadConfig_MissingFile tests the error for a nonexistent path.
func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/vigil.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestLoadConfig_MalformedYAML tests the error for unparseable content.
func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "logging: [not: valid")
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

// TestLoadConfigWithEnvOverrides tests that environment variables take
// precedence over file values.
func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: info
audit:
  backend: sqlite
  path: data/file.db
`)

	t.Setenv("VIGIL_LOGGING_LEVEL", "error")
	t.Setenv("VIGIL_AUDIT_BACKEND", "memory")
	t.Setenv("VIGIL_AUDIT_PATH", "/tmp/override.db")
	t.Setenv("VIGIL_RATELIMITS_SWEEP_INTERVAL", "90s")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Logging.Level != "error" {
		t.Errorf("Expected level error, got %q", cfg.Logging.Level)
	}
	if cfg.Audit.Backend != "memory" {
		t.Errorf("Expected backend memory, got %q", cfg.Audit.Backend)
	}
	if cfg.Audit.Path != "/tmp/override.db" {
		t.Errorf("Expected overridden path, got %q", cfg.Audit.Path)
	}
	if cfg.RateLimits.SweepInterval != 90*time.Second {
		t.Errorf("Expected 90s sweep interval, got %v", cfg.RateLimits.SweepInterval)
	}
}

// TestLoadConfigWithEnvOverrides_InvalidOverride tests that an override
// producing an invalid configuration fails validation.
func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfigFile(t, "")
	t.Setenv("VIGIL_LOGGING_LEVEL", "verbose")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("Expected validation error for invalid level override")
	}
}

// TestValidate tests rejection of invalid configurations.
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad backend", func(c *Config) { c.Audit.Backend = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Audit.Path = "" }},
		{"negative digest window", func(c *Config) { c.Audit.Digest.WindowHours = -1 }},
		{"field without name", func(c *Config) {
			c.Guardrails.Fields = []FieldConfig{{Min: 0, Max: 1, Operation: "read_database"}}
		}},
		{"field min above max", func(c *Config) {
			c.Guardrails.Fields = []FieldConfig{{Name: "age", Min: 10, Max: 5, Operation: "read_database"}}
		}},
		{"field without operation", func(c *Config) {
			c.Guardrails.Fields = []FieldConfig{{Name: "age", Min: 0, Max: 130}}
		}},
		{"bad sql pattern", func(c *Config) {
			c.Guardrails.Sanitizer.SQLPatterns = []string{"[unterminated"}
		}},
		{"bad script pattern", func(c *Config) {
			c.Guardrails.Sanitizer.ScriptPatterns = []string{"(?P<"}
		}},
		{"negative quota", func(c *Config) {
			c.RateLimits.Quotas = map[string]QuotaConfig{"x": {MaxCalls: -1, Window: time.Minute}}
		}},
		{"quota without window", func(c *Config) {
			c.RateLimits.Quotas = map[string]QuotaConfig{"x": {MaxCalls: 3}}
		}},
		{"empty role", func(c *Config) {
			c.Access = map[string][]string{"": {"read_database"}}
		}},
		{"empty operation", func(c *Config) {
			c.Access = map[string][]string{"admin": {""}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}

// TestValidate_Default tests that the default configuration is valid.
func TestValidate_Default(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("Default configuration should validate: %v", err)
	}
}
