// Package metrics provides centralized Prometheus metrics registry for the odds pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sportsbook"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	OddsRecordsExtractedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_records_extracted_total",
		Help:      "Total number of raw odds rows extracted from markup",
	}, []string{"sport"})
	OddsNormalizedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_normalized_total",
		Help:      "Total number of normalized (match, bookmaker) odds entries",
	}, []string{"sport"})
	WarningsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "warnings_total",
		Help:      "Total number of recoverable pipeline warnings by kind",
	}, []string{"kind"})
	ResultsFetchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "results_fetched_total",
		Help:      "Total number of game results fetched",
	}, []string{"sport"})
	FetchFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_failures_total",
		Help:      "Total number of failed per-sport downloads",
	}, []string{"source", "sport"})
	ReconciledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciled_records_total",
		Help:      "Total number of reconciled records by outcome",
	}, []string{"outcome"})
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Total number of stage runs by status",
	}, []string{"stage", "status"})
	ResultsCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "results_cache_hits_total",
		Help:      "Total number of results cache hits",
	})
	ResultsCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "results_cache_misses_total",
		Help:      "Total number of results cache misses",
	})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of HTTP circuit breaker trips",
	})
)

// Gauge metrics
var (
	LastRunTimestamp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last successful stage run",
	}, []string{"stage"})
	FavoriteWinRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "favorite_win_rate_percent",
		Help:      "Favorite win percentage per bookmaker in the last report",
	}, []string{"bookmaker"})
)

// Histogram metrics
var (
	StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of pipeline stages in seconds",
		Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(OddsRecordsExtractedTotal)
		registry.MustRegister(OddsNormalizedTotal)
		registry.MustRegister(WarningsTotal)
		registry.MustRegister(ResultsFetchedTotal)
		registry.MustRegister(FetchFailuresTotal)
		registry.MustRegister(ReconciledTotal)
		registry.MustRegister(RunsTotal)
		registry.MustRegister(ResultsCacheHitsTotal)
		registry.MustRegister(ResultsCacheMissesTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		registry.MustRegister(LastRunTimestamp)
		registry.MustRegister(FavoriteWinRate)

		registry.MustRegister(StageDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordExtracted records raw rows extracted for a sport.
func RecordExtracted(sport string, n int) {
	OddsRecordsExtractedTotal.WithLabelValues(sport).Add(float64(n))
}

// RecordNormalized records normalized odds entries for a sport.
func RecordNormalized(sport string, n int) {
	OddsNormalizedTotal.WithLabelValues(sport).Add(float64(n))
}

// RecordWarning records one warning of a kind.
func RecordWarning(kind string) {
	WarningsTotal.WithLabelValues(kind).Inc()
}

// RecordResultsFetched records results fetched for a sport.
func RecordResultsFetched(sport string, n int) {
	ResultsFetchedTotal.WithLabelValues(sport).Add(float64(n))
}

// RecordFetchFailure records a failed download.
func RecordFetchFailure(source, sport string) {
	FetchFailuresTotal.WithLabelValues(source, sport).Inc()
}

// RecordReconciled records one reconciled row.
func RecordReconciled(outcome string) {
	ReconciledTotal.WithLabelValues(outcome).Inc()
}

// RecordStage records a finished stage run.
func RecordStage(stage string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	} else {
		LastRunTimestamp.WithLabelValues(stage).SetToCurrentTime()
	}
	RunsTotal.WithLabelValues(stage, status).Inc()
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordCacheHit records a results cache hit.
func RecordCacheHit() {
	ResultsCacheHitsTotal.Inc()
}

// RecordCacheMiss records a results cache miss.
func RecordCacheMiss() {
	ResultsCacheMissesTotal.Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// UpdateFavoriteWinRate sets the favorite win percentage of a bookmaker.
func UpdateFavoriteWinRate(bookmaker string, pct float64) {
	FavoriteWinRate.WithLabelValues(bookmaker).Set(pct)
}
