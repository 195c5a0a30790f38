package main

import (
	"fmt"

	"sragops/vigil/pkg/audit"
	"sragops/vigil/pkg/audit/logger"
	"sragops/vigil/pkg/audit/storage"
	"sragops/vigil/pkg/audit/trail"
	"sragops/vigil/pkg/config"
	"sragops/vigil/pkg/guardrails"
	"sragops/vigil/pkg/guardrails/ratelimit"
	"sragops/vigil/pkg/telemetry/logging"
	"sragops/vigil/pkg/telemetry/metrics"
)

// app wires the engine together from configuration: sanitizer, access
// controller, rate limiter, validation engine, decision logger, and audit
// trail manager. Each command builds one app and closes it when done.
type app struct {
	cfg       *config.Config
	engine    *guardrails.Engine
	limiter   *ratelimit.Limiter
	store     audit.Storage
	decisions *logger.DecisionLogger
	trail     *trail.Manager
	collector *metrics.Collector
}

// loadAppConfig loads the configuration file if one was given, applying
// the built-in defaults otherwise.
func loadAppConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// newApp assembles the engine. backendOverride forces a storage backend
// regardless of configuration ("memory" for the demo); empty uses the
// configured backend.
func newApp(backendOverride string) (*app, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}

	logCfg := logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	if _, err := logging.Setup(logCfg); err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace, nil)
	}

	sanitizer, err := guardrails.NewSanitizer(sanitizerConfig(cfg))
	if err != nil {
		return nil, err
	}

	access := guardrails.NewAccessController(accessPolicy(cfg))

	var windowStore *ratelimit.SQLiteStore
	if cfg.RateLimits.StorePath != "" {
		windowStore, err = ratelimit.NewSQLiteStore(cfg.RateLimits.StorePath)
		if err != nil {
			return nil, err
		}
	}
	limiter := ratelimit.NewLimiter(quotas(cfg), windowStore)
	limiter.StartSweeper(cfg.RateLimits.SweepInterval)

	engine := guardrails.NewEngine(sanitizer, access, limiter, fieldDescriptors(cfg))
	if collector != nil {
		engine.SetCheckRecorder(collector)
	}

	backend := cfg.Audit.Backend
	if backendOverride != "" {
		backend = backendOverride
	}

	var store audit.Storage
	switch backend {
	case "memory":
		store = storage.NewMemoryStorage()
	case "sqlite":
		store, err = storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:         cfg.Audit.Path,
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			WALMode:      true,
			BusyTimeout:  storage.DefaultSQLiteConfig().BusyTimeout,
		})
		if err != nil {
			limiter.Close()
			return nil, err
		}
	default:
		limiter.Close()
		return nil, fmt.Errorf("unknown audit backend %q", backend)
	}

	decisions := logger.NewDecisionLogger(store, collector)

	return &app{
		cfg:       cfg,
		engine:    engine,
		limiter:   limiter,
		store:     store,
		decisions: decisions,
		trail:     trail.NewManager(decisions, access),
		collector: collector,
	}, nil
}

// Close releases the limiter and storage resources.
func (a *app) Close() {
	a.limiter.Close()
	a.store.Close()
}

func sanitizerConfig(cfg *config.Config) *guardrails.SanitizerConfig {
	s := cfg.Guardrails.Sanitizer
	if len(s.SQLPatterns) == 0 && len(s.ScriptPatterns) == 0 {
		return nil // built-in denylists
	}
	return &guardrails.SanitizerConfig{
		SQLPatterns:    s.SQLPatterns,
		ScriptPatterns: s.ScriptPatterns,
	}
}

func accessPolicy(cfg *config.Config) guardrails.AccessPolicy {
	if len(cfg.Access) == 0 {
		return nil // built-in policy
	}
	return guardrails.AccessPolicy(cfg.Access)
}

func quotas(cfg *config.Config) map[string]ratelimit.Quota {
	if len(cfg.RateLimits.Quotas) == 0 {
		return nil // built-in quotas
	}
	qs := make(map[string]ratelimit.Quota, len(cfg.RateLimits.Quotas))
	for op, q := range cfg.RateLimits.Quotas {
		qs[op] = ratelimit.Quota{MaxCalls: q.MaxCalls, Window: q.Window}
	}
	return qs
}

func fieldDescriptors(cfg *config.Config) []guardrails.FieldDescriptor {
	if len(cfg.Guardrails.Fields) == 0 {
		return nil // built-in descriptors
	}
	descs := make([]guardrails.FieldDescriptor, 0, len(cfg.Guardrails.Fields))
	for _, f := range cfg.Guardrails.Fields {
		descs = append(descs, guardrails.FieldDescriptor{
			Name:      f.Name,
			Min:       f.Min,
			Max:       f.Max,
			Operation: f.Operation,
		})
	}
	return descs
}
