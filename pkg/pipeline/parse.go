package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/routeviz/bgpmap/pkg/graph"
	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/source/remote"
	"github.com/routeviz/bgpmap/pkg/source/topofile"
	"github.com/routeviz/bgpmap/pkg/topology"
)

// readSource returns the raw document bytes for the configured input:
// inline data, an http(s) URL, or a local file path.
func readSource(ctx context.Context, opts Options) ([]byte, error) {
	if len(opts.Data) > 0 {
		return opts.Data, nil
	}
	if remote.IsURL(opts.Source) {
		fetcher, err := remote.NewFetcher("", 0)
		if err != nil {
			return nil, fmt.Errorf("init remote fetcher: %w", err)
		}
		data, err := fetcher.Fetch(ctx, opts.Source, opts.Refresh)
		if err != nil {
			return nil, fmt.Errorf("fetch source: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return data, nil
}

// parseDocument builds a topology from raw document bytes. JSON interchange
// files may carry saved positions; TOML definitions never do.
func parseDocument(data []byte, format string) (*topology.Topology, map[string]layout.Point, error) {
	switch format {
	case SourceTOML:
		t, err := topofile.Parse(data)
		if err != nil {
			return nil, nil, err
		}
		return t, nil, nil
	case SourceJSON:
		t, positions, err := graph.ReadTopology(bytes.NewReader(data))
		if err != nil {
			return nil, nil, err
		}
		return t, fromGraphPositions(positions), nil
	default:
		return nil, nil, fmt.Errorf("invalid source format: %q", format)
	}
}

// fromGraphPositions converts interchange positions to layout points,
// skipping nodes whose coordinates are null.
func fromGraphPositions(positions map[string]graph.Position) map[string]layout.Point {
	if len(positions) == 0 {
		return nil
	}
	out := make(map[string]layout.Point, len(positions))
	for id, p := range positions {
		if p.Known() {
			out[id] = layout.Point{X: *p.X, Y: *p.Y}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// toGraphPositions converts layout points to interchange positions.
func toGraphPositions(positions map[string]layout.Point) map[string]graph.Position {
	if len(positions) == 0 {
		return nil
	}
	out := make(map[string]graph.Position, len(positions))
	for id, p := range positions {
		out[id] = *graph.At(p.X, p.Y)
	}
	return out
}
