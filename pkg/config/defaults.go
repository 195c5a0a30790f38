package config

import "time"

// ApplyDefaults fills in default values for any unset configuration
// fields. Called automatically by LoadConfig.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "vigil"
	}
	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = "127.0.0.1:9464"
	}

	if cfg.RateLimits.SweepInterval == 0 {
		cfg.RateLimits.SweepInterval = 5 * time.Minute
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = "sqlite"
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = "data/decisions_audit.db"
	}
	if cfg.Audit.Digest.WindowHours == 0 {
		cfg.Audit.Digest.WindowHours = 24
	}
}

// Default returns a configuration with all defaults applied and metrics
// enabled, used when no config file is present.
func Default() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	ApplyDefaults(cfg)
	return cfg
}
