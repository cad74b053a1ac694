package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the analysis collectors on a dedicated prometheus registry
type Registry struct {
	registry *prometheus.Registry

	AnalysesTotal    *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	GraphNodes       prometheus.Gauge
	GraphEdges       prometheus.Gauge
	AmbiguousEdges   prometheus.Gauge
	ScoredRegulators prometheus.Gauge

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every collector registered
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initAnalysisMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initAnalysisMetrics() {
	r.AnalysesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcr_analyses_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rcr_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"stage"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "rcr_graph_nodes",
		Help: "Genes in the last built causal graph",
	})
	r.GraphEdges = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "rcr_graph_edges",
		Help: "Directed edges in the last built causal graph",
	})
	r.AmbiguousEdges = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "rcr_ambiguous_edges",
		Help: "Edges resolved to ambiguous in the last built causal graph",
	})
	r.ScoredRegulators = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "rcr_scored_regulators",
		Help: "Regulators with at least one defined enrichment score in the last analysis",
	})
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcr_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rcr_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
}

// ObserveStage records how long a pipeline stage took
func (r *Registry) ObserveStage(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordAnalysis counts a finished run
func (r *Registry) RecordAnalysis(status string) {
	r.AnalysesTotal.WithLabelValues(status).Inc()
}

// SetGraphSize publishes the size of the causal graph
func (r *Registry) SetGraphSize(nodes, edges, ambiguous int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	r.AmbiguousEdges.Set(float64(ambiguous))
}

// SetScoredRegulators publishes the number of regulators with a defined score
func (r *Registry) SetScoredRegulators(n int) {
	r.ScoredRegulators.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Gatherer exposes the underlying registry
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
