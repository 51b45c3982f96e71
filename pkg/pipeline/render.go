package pipeline

import (
	"context"
	"fmt"

	"github.com/routeviz/bgpmap/pkg/graph"
	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/render"
	"github.com/routeviz/bgpmap/pkg/topology"
)

// renderArtifacts produces every requested output format. The DOT document is
// built once and shared by the graphviz-backed formats.
func renderArtifacts(ctx context.Context, t *topology.Topology, x *topology.Expansion, positions map[string]layout.Point, opts Options) (map[string][]byte, error) {
	var dot string
	needsDOT := false
	for _, f := range opts.Formats {
		if f == FormatDOT || f == FormatSVG || f == FormatPNG {
			needsDOT = true
			break
		}
	}
	if needsDOT {
		dot = render.ToDOT(t, x, positions, render.Options{Detailed: opts.Detailed})
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
		case FormatSVG:
			svg, err := render.RenderSVG(ctx, dot)
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			artifacts[format] = svg
		case FormatPNG:
			png, err := render.RenderPNG(ctx, dot)
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[format] = png
		case FormatJSON:
			doc, err := graph.MarshalTopology(t, toGraphPositions(positions))
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = doc
		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}
	return artifacts, nil
}
