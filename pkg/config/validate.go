package config

import (
	"fmt"
	"regexp"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json": true,
	"text": true,
}

var validAuditBackends = map[string]bool{
	"sqlite": true,
	"memory": true,
}

// Validate checks the configuration for errors. It verifies log settings,
// field descriptor ranges, quota values, and compiles every sanitizer
// pattern so a malformed denylist fails at startup rather than silently
// failing open at check time.
func Validate(cfg *Config) error {
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging.level %q", cfg.Logging.Level)
	}
	if !validLogFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging.format %q", cfg.Logging.Format)
	}

	if !validAuditBackends[cfg.Audit.Backend] {
		return fmt.Errorf("invalid audit.backend %q (must be \"sqlite\" or \"memory\")", cfg.Audit.Backend)
	}
	if cfg.Audit.Backend == "sqlite" && cfg.Audit.Path == "" {
		return fmt.Errorf("audit.path is required for the sqlite backend")
	}
	if cfg.Audit.Digest.WindowHours < 0 {
		return fmt.Errorf("audit.digest.window_hours must be >= 0, got %d", cfg.Audit.Digest.WindowHours)
	}

	for i, f := range cfg.Guardrails.Fields {
		if f.Name == "" {
			return fmt.Errorf("guardrails.fields[%d]: name is required", i)
		}
		if f.Min > f.Max {
			return fmt.Errorf("guardrails.fields[%d] (%s): min %g exceeds max %g", i, f.Name, f.Min, f.Max)
		}
		if f.Operation == "" {
			return fmt.Errorf("guardrails.fields[%d] (%s): operation is required", i, f.Name)
		}
	}

	for _, p := range cfg.Guardrails.Sanitizer.SQLPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid guardrails.sanitizer.sql_patterns entry %q: %w", p, err)
		}
	}
	for _, p := range cfg.Guardrails.Sanitizer.ScriptPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid guardrails.sanitizer.script_patterns entry %q: %w", p, err)
		}
	}

	for op, q := range cfg.RateLimits.Quotas {
		if q.MaxCalls < 0 {
			return fmt.Errorf("rate_limits.quotas[%s]: max_calls must be >= 0, got %d", op, q.MaxCalls)
		}
		if q.MaxCalls > 0 && q.Window <= 0 {
			return fmt.Errorf("rate_limits.quotas[%s]: window must be > 0", op)
		}
	}

	for role, ops := range cfg.Access {
		if role == "" {
			return fmt.Errorf("access: empty role name")
		}
		for _, op := range ops {
			if op == "" {
				return fmt.Errorf("access[%s]: empty operation name", role)
			}
		}
	}

	return nil
}
