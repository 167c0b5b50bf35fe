package metrics

import (
	"context"
	"strconv"
	"time"
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// OnGraphLoaded records the size of a newly loaded graph.
func (r *Registry) OnGraphLoaded(nodes, edges, dropped int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	r.DroppedEdgesTotal.Add(float64(dropped))
}

// OnRunStateChange records whether the loop is running.
func (r *Registry) OnRunStateChange(running bool) {
	if running {
		r.EngineRunning.Set(1)
	} else {
		r.EngineRunning.Set(0)
	}
}

// OnFrame records one simulation frame.
func (r *Registry) OnFrame(_ uint64, duration time.Duration, energy float64) {
	r.FramesTotal.Inc()
	r.FrameDuration.Observe(duration.Seconds())
	r.KineticEnergy.Set(energy)
}

// OnSettled records an automatic stop.
func (r *Registry) OnSettled(uint64) {
	r.SettledTotal.Inc()
}

// OnSelect records a selection change.
func (r *Registry) OnSelect(kind string) {
	r.SelectionsTotal.WithLabelValues(kind).Inc()
}

// OnLayoutStart implements observability.PipelineHooks.
func (r *Registry) OnLayoutStart(context.Context, int) {}

// OnLayoutComplete records a headless layout run.
func (r *Registry) OnLayoutComplete(_ context.Context, _ uint64, duration time.Duration, err error) {
	r.LayoutsTotal.WithLabelValues(status(err)).Inc()
	r.LayoutDuration.Observe(duration.Seconds())
}

// OnRenderStart implements observability.PipelineHooks.
func (r *Registry) OnRenderStart(context.Context, []string) {}

// OnRenderComplete records a render call.
func (r *Registry) OnRenderComplete(_ context.Context, _ []string, duration time.Duration, err error) {
	r.RendersTotal.WithLabelValues(status(err)).Inc()
	r.RenderDuration.Observe(duration.Seconds())
}

// OnCacheHit records a cache hit.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

// OnCacheMiss records a cache miss.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

// OnCacheSet records a cache write.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnResponse records a served HTTP request.
func (r *Registry) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// OnStreamClient tracks connected stream clients.
func (r *Registry) OnStreamClient(_ context.Context, connected bool) {
	if connected {
		r.StreamClients.Inc()
	} else {
		r.StreamClients.Dec()
	}
}
