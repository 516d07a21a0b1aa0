package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	out := &dto.Metric{}
	require.NoError(t, m.Write(out))
	if out.Counter != nil {
		return out.GetCounter().GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordExtracted(t *testing.T) {
	InitRegistry()
	before := metricValue(t, OddsRecordsExtractedTotal.WithLabelValues("NFL"))

	RecordExtracted("NFL", 8)

	assert.Equal(t, before+8, metricValue(t, OddsRecordsExtractedTotal.WithLabelValues("NFL")))
}

func TestRecordStage(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		err    error
		status string
	}{
		{name: "success", err: nil, status: "success"},
		{name: "failure", err: errors.New("boom"), status: "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := metricValue(t, RunsTotal.WithLabelValues("sync", tt.status))
			assert.NotPanics(t, func() {
				RecordStage("sync", 2*time.Second, tt.err)
			})
			assert.Equal(t, before+1, metricValue(t, RunsTotal.WithLabelValues("sync", tt.status)))
		})
	}
}

func TestRecordWarningAndOutcome(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordWarning("LegCountMismatch")
		RecordReconciled("Favorite")
		RecordFetchFailure("the_odds_api", "NHL")
		RecordCacheHit()
		RecordCacheMiss()
		RecordCircuitBreakerTrip()
		UpdateFavoriteWinRate("DraftKings", 66.67)
	})
	assert.Equal(t, 66.67, metricValue(t, FavoriteWinRate.WithLabelValues("DraftKings")))
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordResultsFetched("NBA", 3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "sportsbook_results_fetched_total"))
}
