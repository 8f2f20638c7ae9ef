// Package metrics exports dashboard telemetry as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "commsdash"

// Telemetry implements the dashboard Telemetry contract on a dedicated
// Prometheus registry.
type Telemetry struct {
	registry *prometheus.Registry

	events    *prometheus.CounterVec
	mutations *prometheus.CounterVec
	sessions  prometheus.Gauge
	panels    *prometheus.HistogramVec
	errors    *prometheus.CounterVec
}

// NewTelemetry registers the dashboard collectors. A nil registry gets a
// fresh one with the Go and process collectors.
func NewTelemetry(registry *prometheus.Registry) *Telemetry {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(registry)
	return &Telemetry{
		registry: registry,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Dashboard telemetry events by name.",
		}, []string{"event"}),
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_mutations_total",
			Help:      "Record deletes and toggles by view.",
		}, []string{"view", "action"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Open dashboard sessions.",
		}),
		panels: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "panel_render_seconds",
			Help:      "Time spent producing panel payloads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"panel"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panel_errors_total",
			Help:      "Panel provider failures.",
		}, []string{"panel"}),
	}
}

// Registry returns the registry the collectors live on.
func (t *Telemetry) Registry() *prometheus.Registry { return t.registry }

// Record implements dashboard.Telemetry.
func (t *Telemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.events.WithLabelValues(event).Inc()
	switch {
	case strings.HasPrefix(event, "dashboard.session."):
		if active, ok := number(payload["active"]); ok {
			t.sessions.Set(active)
		}
	case event == "dashboard.panel.render":
		if ms, ok := number(payload["duration_ms"]); ok {
			t.panels.WithLabelValues(label(payload["panel"])).Observe(ms / 1000)
		}
	case event == "dashboard.panel.provider_error":
		t.errors.WithLabelValues(label(payload["panel"])).Inc()
	case strings.HasPrefix(event, "dashboard.record."):
		t.mutations.WithLabelValues(label(payload["view"]), strings.TrimPrefix(event, "dashboard.record.")).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{Registry: t.registry})
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func label(v any) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return "unknown"
}
