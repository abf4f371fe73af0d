package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the tool server. A disabled
// instance is a safe no-op so call sites never need nil checks.
type Metrics struct {
	config MetricsConfig

	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec

	runsStarted   *prometheus.CounterVec
	runsCompleted *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec

	activeSessions prometheus.Gauge

	registry *prometheus.Registry
	server   *http.Server
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool calls dispatched",
			},
			[]string{"tool", "status"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_call_duration_seconds",
				Help:      "Duration of tool call handling in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		runsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_started_total",
				Help:      "Total number of execution sessions started",
			},
			[]string{"kind"},
		),
		runsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_completed_total",
				Help:      "Total number of execution sessions completed",
			},
			[]string{"kind", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of execution sessions in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"kind"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Number of execution sessions currently running",
			},
		),
	}

	collectors := []prometheus.Collector{
		m.toolCalls, m.toolDuration,
		m.runsStarted, m.runsCompleted, m.runDuration,
		m.activeSessions,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// Serve starts the metrics HTTP endpoint. It returns immediately; the
// server runs until Shutdown is called. No-op when metrics are disabled.
func (m *Metrics) Serve() error {
	if !m.config.Enabled {
		return nil
	}

	path := m.config.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	m.server = &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			FromContext(context.Background()).WithError(err).Error("metrics server stopped")
		}
	}()
	return nil
}

// Shutdown stops the metrics HTTP endpoint.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}

// ObserveToolCall records one dispatched tool call.
func (m *Metrics) ObserveToolCall(tool, status string, duration time.Duration) {
	if !m.config.Enabled {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RunStarted records the start of an execution session.
func (m *Metrics) RunStarted(kind string) {
	if !m.config.Enabled {
		return
	}
	m.runsStarted.WithLabelValues(kind).Inc()
	m.activeSessions.Inc()
}

// RunCompleted records the end of an execution session.
func (m *Metrics) RunCompleted(kind, status string, duration time.Duration) {
	if !m.config.Enabled {
		return
	}
	m.runsCompleted.WithLabelValues(kind, status).Inc()
	m.runDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.activeSessions.Dec()
}
