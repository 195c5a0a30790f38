package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records all Prometheus metrics for the engine.
// It is cheap enough for the hot validation path: every update is a
// pre-registered counter or histogram observation.
type Collector struct {
	registry *prometheus.Registry

	checksTotal    *prometheus.CounterVec
	tripsTotal     *prometheus.CounterVec
	decisionsTotal *prometheus.CounterVec
	storeDuration  prometheus.Histogram
}

// NewCollector creates a metrics collector with the given namespace. If
// registry is nil a fresh registry is used, keeping test fixtures isolated.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "vigil"
	}

	c := &Collector{
		registry: registry,
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guardrail_checks_total",
				Help:      "Total validation checks by field and outcome",
			},
			[]string{"field", "outcome"},
		),
		tripsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guardrail_trips_total",
				Help:      "Total guardrail rules fired, by rule identifier",
			},
			[]string{"guardrail"},
		),
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Total decision records written, by type and status",
			},
			[]string{"decision_type", "status"},
		),
		storeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "decision_store_duration_seconds",
				Help:      "Latency of decision record storage commits",
				// Local SQLite commits are fast (<10ms typical)
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to ~400ms
			},
		),
	}

	registry.MustRegister(c.checksTotal, c.tripsTotal, c.decisionsTotal, c.storeDuration)

	return c
}

// RecordCheck records one validation check outcome. An empty guardrail
// means the check passed.
func (c *Collector) RecordCheck(field, guardrail string, valid bool) {
	outcome := "pass"
	if !valid {
		outcome = "fail"
	}
	c.checksTotal.WithLabelValues(field, outcome).Inc()
	if guardrail != "" {
		c.tripsTotal.WithLabelValues(guardrail).Inc()
	}
}

// RecordDecision records one persisted decision record.
func (c *Collector) RecordDecision(decisionType, status string) {
	c.decisionsTotal.WithLabelValues(decisionType, status).Inc()
}

// ObserveStoreDuration records the latency of one storage commit.
func (c *Collector) ObserveStoreDuration(d time.Duration) {
	c.storeDuration.Observe(d.Seconds())
}

// Handler returns an http.Handler serving the collector's registry in
// Prometheus exposition format, for embedding by the report pipeline.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
