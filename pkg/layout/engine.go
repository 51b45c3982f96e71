package layout

import (
	"fmt"

	"github.com/routeviz/bgpmap/pkg/topology"
)

// Default layout parameters.
const (
	// DefaultSeed is the default force-simulation seed. Fixed so that two
	// renders of the same topology agree without any configuration.
	DefaultSeed = uint64(42)

	// DefaultIterations is the default number of force-simulation rounds.
	DefaultIterations = 50

	// DefaultNodeRadius is the router radius in layout units ([-1,1] frame).
	DefaultNodeRadius = 0.05
)

// interfaceOffsetFactor converts the node radius into the radial distance of
// an interface node from its owning router.
const interfaceOffsetFactor = 2.0

// Point is a 2-D coordinate in the layout frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Options configures an [Engine].
type Options struct {
	Seed       uint64  // force-simulation seed; 0 means DefaultSeed
	Iterations int     // force-simulation rounds; 0 means DefaultIterations
	NodeRadius float64 // router radius; 0 means DefaultNodeRadius
}

func (o Options) withDefaults() Options {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.NodeRadius == 0 {
		o.NodeRadius = DefaultNodeRadius
	}
	return o
}

// Engine owns the position table for a laid-out topology. It is the only
// writer of positions: renderers read snapshots via [Engine.Positions] and
// feed drags back through [Engine.MoveNode]. Engine is not safe for
// concurrent use; the rendering surface is assumed to be a single consumer.
type Engine struct {
	opts      Options
	radius    float64
	positions map[string]Point

	topo *topology.Topology
	exp  *topology.Expansion
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		opts:      opts,
		radius:    opts.NodeRadius,
		positions: make(map[string]Point),
	}
}

// Layout computes coordinates for every node of the expanded topology:
// routers via the seeded force simulation, then AS containers and interface
// nodes via hierarchical offset placement. Nodes present in initial keep
// their supplied coordinates instead of the simulated ones, which is how
// imported files with saved positions survive a re-render.
//
// Layout replaces the whole position table; call it again after the router
// set changes or after [Engine.ResizeNodes].
func (e *Engine) Layout(t *topology.Topology, x *topology.Expansion, initial map[string]Point) error {
	if t == nil {
		return topology.ErrNilTopology
	}
	if x == nil {
		return fmt.Errorf("expansion is nil")
	}
	e.topo, e.exp = t, x

	routers := t.Routers()
	ids := make([]string, len(routers))
	for i, r := range routers {
		ids[i] = r.ID
	}
	edges := make([][2]string, 0, t.EdgeCount())
	for _, re := range t.Edges() {
		edges = append(edges, [2]string{re.Source, re.Target})
	}

	e.positions = springPositions(ids, edges, e.opts.Seed, e.opts.Iterations)
	for id, p := range initial {
		if _, ok := e.positions[id]; ok {
			e.positions[id] = p
		}
	}

	e.placeGroups()
	e.placeInterfaces()

	// Derived nodes exist now; pin any saved interface or container
	// positions too. IDs unknown to this topology are ignored.
	for id, p := range initial {
		if _, ok := e.positions[id]; ok {
			e.positions[id] = p
		}
	}
	return nil
}

// Positions returns a snapshot of all node positions. The map is a copy; the
// engine's own table can only change through MoveNode and re-layout.
func (e *Engine) Positions() map[string]Point {
	out := make(map[string]Point, len(e.positions))
	for id, p := range e.positions {
		out[id] = p
	}
	return out
}

// Position returns a single node position and whether the node is known.
func (e *Engine) Position(id string) (Point, bool) {
	p, ok := e.positions[id]
	return p, ok
}

// MoveNode translates one node by (dx, dy). No other node moves: drag
// interaction stays O(1) instead of re-running the force simulation. Repeated
// calls between a pointer-down and pointer-up compose; the last write wins
// per coordinate.
func (e *Engine) MoveNode(id string, dx, dy float64) error {
	p, ok := e.positions[id]
	if !ok {
		return fmt.Errorf("unknown node %q", id)
	}
	e.positions[id] = Point{X: p.X + dx, Y: p.Y + dy}
	return nil
}

// RecenterGroups recomputes every AS container position as the arithmetic
// mean of its member routers. Renderers call this before a redraw so that
// dragged routers pull their container along without MoveNode ever touching
// more than one node.
func (e *Engine) RecenterGroups() {
	e.placeGroups()
}

// ResizeNodes updates the shared node radius used to derive interface offset
// distances. Positions do not change until the next Layout pass.
func (e *Engine) ResizeNodes(radius float64) {
	if radius > 0 {
		e.radius = radius
	}
}

// NodeRadius returns the current shared node radius.
func (e *Engine) NodeRadius() float64 { return e.radius }

// placeGroups centers each AS container on the mean of its member routers.
func (e *Engine) placeGroups() {
	if e.topo == nil {
		return
	}
	for _, g := range e.topo.ASGroups() {
		var sum Point
		for _, id := range g.Members {
			p := e.positions[id]
			sum.X += p.X
			sum.Y += p.Y
		}
		n := float64(len(g.Members))
		e.positions[topology.ASNodeID(g.Number)] = Point{X: sum.X / n, Y: sum.Y / n}
	}
}

// placeInterfaces positions each interface node at a radial offset from its
// owning router, pointed at the far endpoint of the route edge that names it.
// Interfaces no edge references are fanned at deterministic angles instead.
func (e *Engine) placeInterfaces() {
	if e.topo == nil || e.exp == nil {
		return
	}
	offset := e.radius * interfaceOffsetFactor

	perRouter := make(map[string]int)
	for _, node := range e.exp.Interfaces {
		anchor := e.positions[node.Router]

		far, ok := e.farEndpoint(node)
		if !ok {
			// Unreferenced interface: fan around the router.
			idx := perRouter[node.Router]
			perRouter[node.Router]++
			e.positions[node.ID] = fanPoint(anchor, offset, idx)
			continue
		}

		dx := far.X - anchor.X
		dy := far.Y - anchor.Y
		dist := hypot(dx, dy)
		if dist == 0 {
			// Degenerate geometry: the interface sits on the router.
			e.positions[node.ID] = anchor
			continue
		}
		e.positions[node.ID] = Point{
			X: anchor.X + dx/dist*offset,
			Y: anchor.Y + dy/dist*offset,
		}
	}
}

// farEndpoint finds the position of the router on the other side of the first
// route edge naming this interface.
func (e *Engine) farEndpoint(node topology.InterfaceNode) (Point, bool) {
	for _, re := range e.topo.Edges() {
		if re.Source == node.Router && re.SourceInterface == node.Name {
			return e.positions[re.Target], true
		}
		if re.Target == node.Router && re.TargetInterface == node.Name {
			return e.positions[re.Source], true
		}
	}
	return Point{}, false
}
