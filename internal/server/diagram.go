package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/pipeline"
	"github.com/routeviz/bgpmap/pkg/render"
	"github.com/routeviz/bgpmap/pkg/topology"
)

// diagram is one uploaded topology held in memory, together with the layout
// engine owning its positions and the pointer translating interaction events.
// All access goes through mu: the engine and pointer are single-writer.
type diagram struct {
	mu sync.Mutex

	id        string
	hash      string
	topo      *topology.Topology
	exp       *topology.Expansion
	engine    *layout.Engine
	pointer   *render.Pointer
	detailed  bool
	createdAt time.Time
}

func newDiagram(result *pipeline.Result, opts pipeline.Options) *diagram {
	engine := layout.NewEngine(opts.LayoutOptions())
	// Rebuild the engine's table from the pipeline result so drags start
	// from the rendered arrangement.
	_ = engine.Layout(result.Topology, result.Expansion, result.Positions)

	return &diagram{
		id:        uuid.NewString(),
		hash:      result.TopologyHash,
		topo:      result.Topology,
		exp:       result.Expansion,
		engine:    engine,
		pointer:   render.NewPointer(result.Topology, result.Expansion, engine, 0),
		detailed:  opts.Detailed,
		createdAt: time.Now(),
	}
}

// positions returns a snapshot of the diagram's current positions.
func (d *diagram) positions() map[string]layout.Point {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Positions()
}

// apply feeds one pointer event through the diagram's interaction boundary.
func (d *diagram) apply(kind string, x, y float64, at time.Time) (render.Event, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch kind {
	case "down":
		return d.pointer.Down(x, y, at), true
	case "move":
		return d.pointer.Move(x, y), true
	case "up":
		return d.pointer.Up(x, y, at), true
	default:
		return render.Event{}, false
	}
}

func (s *Server) addDiagram(d *diagram) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagrams[d.id] = d
}

func (s *Server) diagram(id string) (*diagram, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagrams[id]
	return d, ok
}

func (s *Server) removeDiagram(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.diagrams[id]; !ok {
		return false
	}
	delete(s.diagrams, id)
	return true
}
