package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/routeviz/bgpmap/pkg/observability"
)

// Register installs the registry as the process-wide observability hooks.
// Call once at server startup.
func Register(r *Registry) {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetServerHooks(r)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Pipeline hooks.

func (r *Registry) OnParseStart(ctx context.Context, source string) {}

func (r *Registry) OnParseComplete(ctx context.Context, source string, routerCount int, duration time.Duration, err error) {
	r.ParsesTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		r.ParseDuration.Observe(duration.Seconds())
	}
}

func (r *Registry) OnValidateComplete(ctx context.Context, routerCount, edgeCount int, err error) {
	r.ValidationsTotal.WithLabelValues(status(err)).Inc()
}

func (r *Registry) OnExpandComplete(ctx context.Context, interfaceCount, droppedEdges int) {
	r.InterfaceNodes.Set(float64(interfaceCount))
	r.DroppedEdgesTotal.Add(float64(droppedEdges))
}

func (r *Registry) OnLayoutStart(ctx context.Context, nodeCount int) {}

func (r *Registry) OnLayoutComplete(ctx context.Context, duration time.Duration, err error) {
	r.LayoutsTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		r.LayoutDuration.Observe(duration.Seconds())
	}
}

func (r *Registry) OnRenderStart(ctx context.Context, formats []string) {}

func (r *Registry) OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error) {
	r.RendersTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		r.RenderDuration.Observe(duration.Seconds())
	}
}

// Cache hooks.

func (r *Registry) OnCacheHit(ctx context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheMiss(ctx context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheSet(ctx context.Context, keyType string, size int) {
	r.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

// Server hooks.

func (r *Registry) OnRequest(ctx context.Context, method, route string) {
	r.HTTPRequestsInFlight.Inc()
}

func (r *Registry) OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	code := strconv.Itoa(statusCode)
	r.HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// Interface checks.
var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.ServerHooks   = (*Registry)(nil)
)
