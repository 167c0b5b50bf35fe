package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEngineMetrics() {
	r.FramesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "kgforce_engine_frames_total",
			Help: "Total number of simulation frames computed",
		},
	)

	r.FrameDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgforce_engine_frame_duration_seconds",
			Help:    "Time spent computing one simulation frame",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	r.KineticEnergy = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgforce_engine_kinetic_energy",
			Help: "Kinetic energy of the most recent frame",
		},
	)

	r.EngineRunning = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgforce_engine_running",
			Help: "Whether the simulation loop is running (1=yes, 0=no)",
		},
	)

	r.SettledTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "kgforce_engine_settled_total",
			Help: "Number of times the simulation stopped on its energy threshold",
		},
	)

	r.SelectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgforce_engine_selections_total",
			Help: "Total number of selection changes",
		},
		[]string{"kind"}, // node, edge
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgforce_graph_nodes",
			Help: "Number of nodes in the loaded graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgforce_graph_edges",
			Help: "Number of valid edges in the loaded graph",
		},
	)

	r.DroppedEdgesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "kgforce_graph_dropped_edges_total",
			Help: "Total number of input edges dropped for referencing unknown nodes",
		},
	)
}

func (r *Registry) initPipelineMetrics() {
	r.LayoutsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgforce_pipeline_layouts_total",
			Help: "Total number of headless layouts computed",
		},
		[]string{"status"}, // success, error
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgforce_pipeline_layout_duration_seconds",
			Help:    "Duration of headless layout runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgforce_pipeline_renders_total",
			Help: "Total number of render calls",
		},
		[]string{"status"},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgforce_pipeline_render_duration_seconds",
			Help:    "Duration of render calls",
			Buckets: prometheus.DefBuckets,
		},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgforce_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"type"}, // layout, artifact
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgforce_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"type"},
	)

	r.CacheWrittenBytes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgforce_cache_written_bytes_total",
			Help: "Total bytes written to the cache",
		},
		[]string{"type"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgforce_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kgforce_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.StreamClients = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgforce_stream_clients",
			Help: "Number of connected snapshot stream clients",
		},
	)
}
