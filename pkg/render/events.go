package render

import (
	"math"
	"time"

	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/topology"
)

// Interaction defaults.
const (
	// DefaultHitRadius is the hit-test radius in layout units.
	DefaultHitRadius = 0.08

	// DoubleClickWindow is the maximum interval between two pointer-downs
	// on the same node for the pair to count as a double-click.
	DoubleClickWindow = 400 * time.Millisecond
)

// Action describes what a pointer event resolved to.
type Action int

const (
	// ActionNone means the event hit nothing actionable.
	ActionNone Action = iota

	// ActionDragStart means a drag began on Event.Node.
	ActionDragStart

	// ActionDrag means the dragged node moved; positions are updated.
	ActionDrag

	// ActionDragEnd means the active drag finished.
	ActionDragEnd

	// ActionInspect means Event.Node was double-clicked; Event.Info holds
	// its device information.
	ActionInspect
)

// Event is the outcome of feeding one pointer event into [Pointer].
type Event struct {
	Action Action
	Node   string
	Info   string
}

type clickPhase int

const (
	clickIdle clickPhase = iota
	clickArmed
)

// Pointer translates raw pointer events from a rendering surface into layout
// mutations and inspection requests. Coordinates are in the layout frame; the
// surface owns the screen-to-layout transform. Timestamps are supplied by the
// caller so behavior stays deterministic under test.
//
// Pointer is not safe for concurrent use; a surface delivers events serially.
type Pointer struct {
	topo      *topology.Topology
	exp       *topology.Expansion
	engine    *layout.Engine
	hitRadius float64

	dragNode string
	dragging bool
	last     layout.Point

	phase     clickPhase
	armedNode string
	armedAt   time.Time
}

// NewPointer creates an interaction boundary over the given engine. A
// hitRadius of 0 selects [DefaultHitRadius].
func NewPointer(t *topology.Topology, x *topology.Expansion, e *layout.Engine, hitRadius float64) *Pointer {
	if hitRadius <= 0 {
		hitRadius = DefaultHitRadius
	}
	return &Pointer{topo: t, exp: x, engine: e, hitRadius: hitRadius}
}

// Down handles a pointer-down at (x, y). A second down on the same node
// within [DoubleClickWindow] is an inspection; any other hit starts a drag.
func (p *Pointer) Down(x, y float64, at time.Time) Event {
	id, ok := p.hitNode(x, y)
	if !ok {
		p.phase = clickIdle
		return Event{Action: ActionNone}
	}

	if p.phase == clickArmed && p.armedNode == id && at.Sub(p.armedAt) <= DoubleClickWindow {
		p.phase = clickIdle
		return Event{Action: ActionInspect, Node: id, Info: p.nodeInfo(id)}
	}

	p.phase = clickArmed
	p.armedNode = id
	p.armedAt = at

	p.dragNode = id
	p.dragging = true
	p.last = layout.Point{X: x, Y: y}
	return Event{Action: ActionDragStart, Node: id}
}

// Move handles pointer motion. During a drag the grabbed node follows the
// pointer and its AS container is recentered; outside a drag motion is inert.
func (p *Pointer) Move(x, y float64) Event {
	if !p.dragging {
		return Event{Action: ActionNone}
	}
	if err := p.engine.MoveNode(p.dragNode, x-p.last.X, y-p.last.Y); err != nil {
		p.dragging = false
		return Event{Action: ActionNone}
	}
	p.last = layout.Point{X: x, Y: y}
	p.engine.RecenterGroups()
	return Event{Action: ActionDrag, Node: p.dragNode}
}

// Up handles pointer release, ending any active drag.
func (p *Pointer) Up(x, y float64, at time.Time) Event {
	if !p.dragging {
		return Event{Action: ActionNone}
	}
	p.dragging = false
	return Event{Action: ActionDragEnd, Node: p.dragNode}
}

// hitNode returns the draggable node nearest to (x, y) within the hit radius.
// AS containers are not directly draggable; they follow their members.
func (p *Pointer) hitNode(x, y float64) (string, bool) {
	var (
		best     string
		bestDist float64
		found    bool
	)
	for id, pt := range p.engine.Positions() {
		if _, isRouter := p.topo.Router(id); !isRouter && !p.exp.HasInterface(id) {
			continue
		}
		d := math.Hypot(pt.X-x, pt.Y-y)
		if d > p.hitRadius {
			continue
		}
		if !found || d < bestDist || (d == bestDist && id < best) {
			best, bestDist, found = id, d, true
		}
	}
	return best, found
}

// nodeInfo resolves the inspection text for a node: stored device information
// for routers, the assigned address for interface nodes.
func (p *Pointer) nodeInfo(id string) string {
	if n, ok := p.exp.Interface(id); ok {
		return n.Name + ": " + n.IP
	}
	return p.topo.Info(id)
}

