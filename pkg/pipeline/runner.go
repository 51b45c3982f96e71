package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/routeviz/bgpmap/pkg/cache"
	"github.com/routeviz/bgpmap/pkg/graph"
	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/observability"
	"github.com/routeviz/bgpmap/pkg/topology"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → validate → expand → layout → render
// pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, opts.sourceLabel())
	t, filePositions, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	observability.Pipeline().OnParseComplete(ctx, opts.sourceLabel(),
		routerCountOrZero(t), time.Since(parseStart), err)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Topology = t
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.RouterCount = t.RouterCount()
	result.Stats.EdgeCount = t.EdgeCount()
	result.CacheInfo.ParseHit = parseHit

	// Compute the canonical hash for cache keys and API responses.
	canonical, err := graph.MarshalTopology(t, nil)
	if err != nil {
		return nil, fmt.Errorf("hash topology: %w", err)
	}
	result.TopologyHash = cache.Hash(canonical)

	r.Logger.Info("parsed topology",
		"routers", t.RouterCount(),
		"edges", t.EdgeCount(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Validate
	err = topology.Validate(t)
	observability.Pipeline().OnValidateComplete(ctx, t.RouterCount(), t.EdgeCount(), err)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	// Stage 3: Expand
	x := topology.Expand(t)
	result.Expansion = x
	result.Stats.InterfaceCount = len(x.Interfaces)
	result.Stats.DroppedEdges = countDroppedEdges(t, x)
	observability.Pipeline().OnExpandComplete(ctx, len(x.Interfaces), result.Stats.DroppedEdges)

	if result.Stats.DroppedEdges > 0 {
		r.Logger.Debug("dropped unresolvable interface edges",
			"count", result.Stats.DroppedEdges)
	}

	// Saved positions passed by the caller win over positions from the file.
	initial := mergePositions(filePositions, opts.Positions)

	// Stage 4: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, t.RouterCount()+len(x.Interfaces))
	positions, layoutHit, err := r.LayoutWithCacheInfo(ctx, t, x, initial, opts)
	observability.Pipeline().OnLayoutComplete(ctx, time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Positions = positions
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(positions),
		"duration", result.Stats.LayoutTime)

	// Stage 5: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, x, positions, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo loads a topology with caching and returns cache hit info.
// Positions saved in JSON interchange files are returned alongside; they do
// not survive the cache (the canonical cached form carries no positions).
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*topology.Topology, map[string]layout.Point, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	data, err := readSource(ctx, opts)
	if err != nil {
		return nil, nil, false, err
	}
	cacheKey := r.Keyer.TopologyKey(cache.Hash(data))

	// Try cache first (unless refresh requested). JSON sources are parsed
	// directly: caching would lose their saved positions.
	if !opts.Refresh && opts.SourceFormat != SourceJSON {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			t, _, err := parseDocument(cached, SourceJSON)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "topology")
				return t, nil, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "topology")
	}

	t, positions, err := parseDocument(data, opts.SourceFormat)
	if err != nil {
		return nil, nil, false, err
	}

	// Cache the canonical form.
	if canonical, err := graph.MarshalTopology(t, nil); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, canonical, cache.TTLTopology); err == nil {
			observability.Cache().OnCacheSet(ctx, "topology", len(canonical))
		}
	}

	return t, positions, false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*topology.Topology, map[string]layout.Point, error) {
	t, positions, _, err := r.ParseWithCacheInfo(ctx, opts)
	return t, positions, err
}

// LayoutWithCacheInfo computes positions with caching and returns cache hit
// info. Runs with pinned initial positions bypass the cache: their result
// depends on state the cache key does not capture.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, t *topology.Topology, x *topology.Expansion, initial map[string]layout.Point, opts Options) (map[string]layout.Point, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	var cacheKey string
	cacheable := len(initial) == 0
	if cacheable {
		canonical, err := graph.MarshalTopology(t, nil)
		if err != nil {
			return nil, false, fmt.Errorf("serialize topology for cache key: %w", err)
		}
		cacheKey = r.Keyer.LayoutKey(cache.Hash(canonical), opts.LayoutKeyOpts())

		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached map[string]layout.Point
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	engine := layout.NewEngine(opts.LayoutOptions())
	if err := engine.Layout(t, x, initial); err != nil {
		return nil, false, err
	}
	positions := engine.Positions()

	if cacheable {
		if data, err := json.Marshal(positions); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}

	return positions, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *topology.Topology, x *topology.Expansion, positions map[string]layout.Point, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// The artifact key covers the topology and every position.
	canonical, err := graph.MarshalTopology(t, toGraphPositions(positions))
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(canonical)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := renderArtifacts(ctx, t, x, positions, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, t *topology.Topology, x *topology.Expansion, positions map[string]layout.Point, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, x, positions, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// mergePositions overlays b on a without mutating either.
func mergePositions(a, b map[string]layout.Point) map[string]layout.Point {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]layout.Point, len(a)+len(b))
	for id, p := range a {
		out[id] = p
	}
	for id, p := range b {
		out[id] = p
	}
	return out
}

// countDroppedEdges counts route edges that name an interface on either side
// but produced no transformed edge.
func countDroppedEdges(t *topology.Topology, x *topology.Expansion) int {
	refs := 0
	for _, e := range t.Edges() {
		if e.SourceInterface != "" || e.TargetInterface != "" {
			refs++
		}
	}
	return refs - len(x.Edges)
}

func routerCountOrZero(t *topology.Topology) int {
	if t == nil {
		return 0
	}
	return t.RouterCount()
}
