// Package metrics exports simulation, cache and HTTP metrics to Prometheus.
//
// [Registry] implements the hook interfaces of package observability, so
// registering it at startup is all that is needed:
//
//	reg := metrics.NewRegistry()
//	observability.SetEngineHooks(reg)
//	observability.SetCacheHooks(reg)
//	observability.SetHTTPHooks(reg)
//	http.Handle("/metrics", reg.Handler())
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/kgforce/pkg/observability"
)

// Registry holds all metrics for the application
type Registry struct {
	// Engine Metrics
	FramesTotal       prometheus.Counter
	FrameDuration     prometheus.Histogram
	KineticEnergy     prometheus.Gauge
	EngineRunning     prometheus.Gauge
	SettledTotal      prometheus.Counter
	SelectionsTotal   *prometheus.CounterVec
	GraphNodes        prometheus.Gauge
	GraphEdges        prometheus.Gauge
	DroppedEdgesTotal prometheus.Counter

	// Pipeline Metrics
	LayoutsTotal   *prometheus.CounterVec
	LayoutDuration prometheus.Histogram
	RendersTotal   *prometheus.CounterVec
	RenderDuration prometheus.Histogram

	// Cache Metrics
	CacheHitsTotal    *prometheus.CounterVec
	CacheMissesTotal  *prometheus.CounterVec
	CacheWrittenBytes *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	StreamClients       prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
	}

	r.initEngineMetrics()
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

var (
	_ observability.EngineHooks   = (*Registry)(nil)
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)
