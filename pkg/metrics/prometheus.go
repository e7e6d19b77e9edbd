package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the process-wide container of Prometheus collectors.
type Metrics struct {
	// Engine-level
	PlanRequestsTotal *prometheus.CounterVec
	PlanDuration      *prometheus.HistogramVec
	PlanInFlight      prometheus.Gauge

	// Pipeline stages
	GeocodeLookupsTotal  *prometheus.CounterVec
	GeocodeCacheHitRatio prometheus.Gauge
	RoadQueriesTotal     *prometheus.CounterVec
	NetworkNodesTotal    *prometheus.HistogramVec
	NetworkEdgesTotal    *prometheus.HistogramVec
	NetworkConnectivity  prometheus.Gauge
	RoutesEnumeratedHist *prometheus.HistogramVec
	RoutesRankedTotal    *prometheus.HistogramVec
	OptimizerGenerations *prometheus.HistogramVec
	OptimizerDuration    *prometheus.HistogramVec

	// System
	MemoryUsage *prometheus.GaugeVec
	Goroutines  prometheus.Gauge
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics registers the collector set under namespace/subsystem.
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		PlanRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_requests_total",
				Help:      "Total number of routing plan requests",
			},
			[]string{"priority", "status"},
		),

		PlanDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_duration_seconds",
				Help:      "End-to-end duration of a plan request",
				Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"priority"},
		),

		PlanInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_requests_in_flight",
				Help:      "Current number of plan requests being processed",
			},
		),

		GeocodeLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "geocode_lookups_total",
				Help:      "Total number of geocoder lookups by outcome",
			},
			[]string{"tier", "outcome"},
		),

		GeocodeCacheHitRatio: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "geocode_cache_hit_ratio",
				Help:      "Rolling geocoder cache hit ratio",
			},
		),

		RoadQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "road_queries_total",
				Help:      "Total number of upstream road-routing queries by outcome",
			},
			[]string{"outcome"},
		),

		NetworkNodesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "network_nodes_total",
				Help:      "Number of locations in a built network",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"type"},
		),

		NetworkEdgesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "network_edges_total",
				Help:      "Number of edges in a built network",
				Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000},
			},
			[]string{"mode"},
		),

		NetworkConnectivity: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "network_connectivity_ratio",
				Help:      "Fraction of built-network locations reachable from the source node",
			},
		),

		RoutesEnumeratedHist: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "routes_enumerated",
				Help:      "Number of candidate routes found during enumeration",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
			[]string{"max_legs"},
		),

		RoutesRankedTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "routes_ranked_total",
				Help:      "Number of routes returned after ranking and top-up",
				Buckets:   []float64{0, 1, 3, 5, 10, 20},
			},
			[]string{"priority"},
		),

		OptimizerGenerations: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "optimizer_generations",
				Help:      "Configured generations (stage 1) or Tabu iterations (stage 2) of an optimizer stage",
				Buckets:   []float64{1, 5, 10, 25, 50, 100},
			},
			[]string{"stage"},
		),

		OptimizerDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "optimizer_duration_seconds",
				Help:      "Duration of an optimizer stage",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30},
			},
			[]string{"stage"},
		),

		MemoryUsage: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "memory_usage_bytes",
				Help:      "Current memory usage",
			},
			[]string{"type"},
		),

		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "goroutines",
				Help:      "Current number of goroutines",
			},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Build information",
			},
			[]string{"version", "environment"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the process-wide Metrics, lazily initializing it.
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("freightcore", "")
	}
	return defaultMetrics
}

// RecordPlanRequest records a completed plan request.
func (m *Metrics) RecordPlanRequest(priority string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.PlanRequestsTotal.WithLabelValues(priority, status).Inc()
	m.PlanDuration.WithLabelValues(priority).Observe(duration.Seconds())
}

// RecordGeocodeLookup records a single geocoder lookup outcome.
func (m *Metrics) RecordGeocodeLookup(tier, outcome string) {
	m.GeocodeLookupsTotal.WithLabelValues(tier, outcome).Inc()
}

// RecordRoadQuery records a single upstream road-routing query outcome.
func (m *Metrics) RecordRoadQuery(outcome string) {
	m.RoadQueriesTotal.WithLabelValues(outcome).Inc()
}

// RecordNetworkSize records the built network's location and edge counts.
func (m *Metrics) RecordNetworkSize(locationsByType map[string]int, edgesByMode map[string]int) {
	for t, n := range locationsByType {
		m.NetworkNodesTotal.WithLabelValues(t).Observe(float64(n))
	}
	for mode, n := range edgesByMode {
		m.NetworkEdgesTotal.WithLabelValues(mode).Observe(float64(n))
	}
}

// RecordNetworkConnectivity records the reachable/total ratio from the
// network builder's post-assembly connectivity diagnostic.
func (m *Metrics) RecordNetworkConnectivity(reachable, total int) {
	if total == 0 {
		m.NetworkConnectivity.Set(0)
		return
	}
	m.NetworkConnectivity.Set(float64(reachable) / float64(total))
}

// RecordRoutesEnumerated records the candidate count found for a max-legs budget.
func (m *Metrics) RecordRoutesEnumerated(maxLegs string, count int) {
	m.RoutesEnumeratedHist.WithLabelValues(maxLegs).Observe(float64(count))
}

// RecordRoutesRanked records the final ranked-route count for a priority.
func (m *Metrics) RecordRoutesRanked(priority string, count int) {
	m.RoutesRankedTotal.WithLabelValues(priority).Observe(float64(count))
}

// RecordOptimizerStage records a completed optimizer stage's cost.
func (m *Metrics) RecordOptimizerStage(stage string, generations int, duration time.Duration) {
	m.OptimizerGenerations.WithLabelValues(stage).Observe(float64(generations))
	m.OptimizerDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// SetServiceInfo sets the build-info gauge.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler returns the HTTP handler serving /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer runs a minimal HTTP server exposing /metrics and /health.
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
