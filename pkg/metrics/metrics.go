// Package metrics provides a Prometheus-backed implementation of the
// observability hooks. The server registers it at startup and exposes the
// registry on /metrics; the CLI leaves the no-op hooks in place.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application.
type Registry struct {
	// Pipeline metrics
	ParsesTotal       *prometheus.CounterVec
	ParseDuration     prometheus.Histogram
	ValidationsTotal  *prometheus.CounterVec
	DroppedEdgesTotal prometheus.Counter
	InterfaceNodes    prometheus.Gauge
	LayoutsTotal      *prometheus.CounterVec
	LayoutDuration    prometheus.Histogram
	RendersTotal      *prometheus.CounterVec
	RenderDuration    prometheus.Histogram

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheSetBytes    *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()

	return r
}

func (r *Registry) initPipelineMetrics() {
	r.ParsesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpmap_parses_total",
			Help: "Total number of topology parses",
		},
		[]string{"status"},
	)

	r.ParseDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bgpmap_parse_duration_seconds",
			Help:    "Topology parse latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.ValidationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpmap_validations_total",
			Help: "Total number of topology validations",
		},
		[]string{"status"},
	)

	r.DroppedEdgesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "bgpmap_dropped_edges_total",
			Help: "Route edges dropped during interface expansion",
		},
	)

	r.InterfaceNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "bgpmap_interface_nodes",
			Help: "Interface nodes produced by the last expansion",
		},
	)

	r.LayoutsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpmap_layouts_total",
			Help: "Total number of layout computations",
		},
		[]string{"status"},
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bgpmap_layout_duration_seconds",
			Help:    "Layout computation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpmap_renders_total",
			Help: "Total number of diagram renders",
		},
		[]string{"status"},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bgpmap_render_duration_seconds",
			Help:    "Diagram render latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpmap_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"key_type"},
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpmap_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key_type"},
	)

	r.CacheSetBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bgpmap_cache_set_bytes",
			Help:    "Size of cache writes in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"key_type"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpmap_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bgpmap_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "bgpmap_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

// Handler returns an http.Handler serving the registry in the Prometheus
// text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}
