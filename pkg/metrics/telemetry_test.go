package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelemetryCountsEvents(t *testing.T) {
	tel := NewTelemetry(prometheus.NewRegistry())
	ctx := context.Background()

	tel.Record(ctx, "dashboard.view.loaded", map[string]any{"view": "campaigns"})
	tel.Record(ctx, "dashboard.view.loaded", map[string]any{"view": "templates"})
	tel.Record(ctx, "dashboard.record.delete", map[string]any{"view": "campaigns"})

	assert.Equal(t, 2.0, testutil.ToFloat64(tel.events.WithLabelValues("dashboard.view.loaded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.mutations.WithLabelValues("campaigns", "delete")))
}

func TestTelemetryTracksActiveSessions(t *testing.T) {
	tel := NewTelemetry(prometheus.NewRegistry())
	ctx := context.Background()

	tel.Record(ctx, "dashboard.session.open", map[string]any{"active": 3})
	assert.Equal(t, 3.0, testutil.ToFloat64(tel.sessions))

	tel.Record(ctx, "dashboard.session.close", map[string]any{"active": 2})
	assert.Equal(t, 2.0, testutil.ToFloat64(tel.sessions))
}

func TestTelemetryObservesPanelRenders(t *testing.T) {
	tel := NewTelemetry(prometheus.NewRegistry())
	tel.Record(context.Background(), "dashboard.panel.render", map[string]any{"panel": "daily_trend", "duration_ms": 12.5})
	tel.Record(context.Background(), "dashboard.panel.provider_error", map[string]any{"panel": "cost_analysis"})

	assert.Equal(t, 1, testutil.CollectAndCount(tel.panels))
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.errors.WithLabelValues("cost_analysis")))
}

func TestTelemetryHandlerExposesMetrics(t *testing.T) {
	tel := NewTelemetry(nil)
	tel.Record(context.Background(), "dashboard.section.open", nil)

	rec := httptest.NewRecorder()
	tel.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `commsdash_events_total{event="dashboard.section.open"} 1`), body)
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
