package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.FramesTotal == nil || r.CacheHitsTotal == nil || r.HTTPRequestsTotal == nil || r.LayoutsTotal == nil {
		t.Error("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestEngineHooks(t *testing.T) {
	r := NewRegistry()

	r.OnGraphLoaded(3, 2, 1)
	r.OnRunStateChange(true)
	for i := range 5 {
		r.OnFrame(uint64(i+1), time.Millisecond, 42)
	}
	r.OnSelect("node")
	r.OnSelect("node")
	r.OnSelect("edge")
	r.OnSettled(5)
	r.OnRunStateChange(false)

	if got := counterValue(t, r.FramesTotal); got != 5 {
		t.Errorf("frames = %v, want 5", got)
	}
	if got := gaugeValue(t, r.KineticEnergy); got != 42 {
		t.Errorf("energy = %v, want 42", got)
	}
	if got := gaugeValue(t, r.EngineRunning); got != 0 {
		t.Errorf("running = %v, want 0", got)
	}
	if got := gaugeValue(t, r.GraphNodes); got != 3 {
		t.Errorf("nodes = %v, want 3", got)
	}
	if got := counterValue(t, r.DroppedEdgesTotal); got != 1 {
		t.Errorf("dropped = %v, want 1", got)
	}
	if got := counterValue(t, r.SelectionsTotal.WithLabelValues("node")); got != 2 {
		t.Errorf("node selections = %v, want 2", got)
	}
	if got := counterValue(t, r.SettledTotal); got != 1 {
		t.Errorf("settled = %v, want 1", got)
	}
}

func TestPipelineAndCacheHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnLayoutComplete(ctx, 300, time.Second, nil)
	r.OnLayoutComplete(ctx, 0, time.Millisecond, errors.New("boom"))
	r.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	r.OnCacheHit(ctx, "layout")
	r.OnCacheMiss(ctx, "layout")
	r.OnCacheMiss(ctx, "layout")
	r.OnCacheSet(ctx, "artifact", 1024)

	if got := counterValue(t, r.LayoutsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("failed layouts = %v, want 1", got)
	}
	if got := counterValue(t, r.RendersTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("renders = %v, want 1", got)
	}
	if got := counterValue(t, r.CacheMissesTotal.WithLabelValues("layout")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
	if got := counterValue(t, r.CacheWrittenBytes.WithLabelValues("artifact")); got != 1024 {
		t.Errorf("written = %v, want 1024", got)
	}
}

func TestHTTPHooksAndHandler(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnResponse(ctx, "GET", "/api/snapshot", 200, 10*time.Millisecond)
	r.OnStreamClient(ctx, true)
	r.OnStreamClient(ctx, true)
	r.OnStreamClient(ctx, false)

	if got := counterValue(t, r.HTTPRequestsTotal.WithLabelValues("GET", "/api/snapshot", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := gaugeValue(t, r.StreamClients); got != 1 {
		t.Errorf("stream clients = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `kgforce_http_requests_total{method="GET",route="/api/snapshot",status="200"} 1`) {
		t.Errorf("exposition missing request counter:\n%s", body)
	}
}
