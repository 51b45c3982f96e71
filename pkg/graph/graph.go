package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/routeviz/bgpmap/pkg/topology"
)

// =============================================================================
// Topology Serialization API
// =============================================================================

// MarshalTopology converts a topology and its known positions to JSON bytes.
func MarshalTopology(t *topology.Topology, positions map[string]Position) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTopologyTo(t, positions, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTopologyFile writes a topology to a JSON interchange file.
// The file is created with 0644 permissions.
func WriteTopologyFile(t *topology.Topology, positions map[string]Position, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTopologyTo(t, positions, f)
}

// WriteTopology writes a topology as interchange JSON to an io.Writer.
func WriteTopology(t *topology.Topology, positions map[string]Position, w io.Writer) error {
	return writeTopologyTo(t, positions, w)
}

// ReadTopologyFile reads an interchange file and returns the decoded topology
// with any known positions. The caller must still run topology.Validate
// before expansion.
func ReadTopologyFile(path string) (*topology.Topology, map[string]Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readTopologyFrom(f)
}

// ReadTopology decodes interchange JSON from an io.Reader.
func ReadTopology(r io.Reader) (*topology.Topology, map[string]Position, error) {
	return readTopologyFrom(r)
}

// =============================================================================
// Topology ↔ Document Conversion
// =============================================================================

// FromTopology converts a topology snapshot plus known positions to its
// interchange form. Nodes and edges follow model insertion order so that
// repeated exports of the same topology are byte-identical.
func FromTopology(t *topology.Topology, positions map[string]Position) Document {
	routers := t.Routers()
	edges := t.Edges()
	info := t.InfoEntries()

	doc := Document{
		Nodes: make([]Node, len(routers)),
		Edges: make([]Edge, len(edges)),
	}

	for i, r := range routers {
		data := NodeData{
			ID:    r.ID,
			Label: r.DisplayLabel(),
			AS:    r.AS,
			Info:  info[r.ID],
		}
		if ifaces := r.Interfaces(); len(ifaces) > 0 {
			data.Interfaces = make(map[string]string, len(ifaces))
			for _, iface := range ifaces {
				data.Interfaces[iface.Name] = iface.CIDR
			}
		}
		node := Node{Data: data}
		if p, ok := positions[r.ID]; ok {
			node.Position = &p
		}
		doc.Nodes[i] = node
	}

	for i, e := range edges {
		doc.Edges[i] = Edge{Data: EdgeData{
			ID:              e.EdgeID(),
			Source:          e.Source,
			Target:          e.Target,
			Weight:          e.Weight,
			SourceIP:        e.SourceIP,
			DestIP:          e.DestIP,
			SourceInterface: e.SourceInterface,
			TargetInterface: e.TargetInterface,
		}}
	}

	return doc
}

// ToTopology converts a decoded document to a topology plus the positions it
// carried. Interface tables are flattened in sorted name order so that a
// given document always produces the same declaration order.
//
// ToTopology reports construction errors (duplicate router IDs, edges naming
// unknown routers) as-is from the topology package; full integrity checking
// is topology.Validate's job.
func ToTopology(doc Document) (*topology.Topology, map[string]Position, error) {
	t := topology.New()
	positions := make(map[string]Position)

	for _, n := range doc.Nodes {
		var ifaces []topology.Interface
		for _, name := range slices.Sorted(maps.Keys(n.Data.Interfaces)) {
			ifaces = append(ifaces, topology.Interface{Name: name, CIDR: n.Data.Interfaces[name]})
		}
		if err := t.AddRouter(n.Data.ID, n.Data.Label, n.Data.AS, ifaces); err != nil {
			return nil, nil, fmt.Errorf("node %s: %w", n.Data.ID, err)
		}
		if n.Data.Info != "" {
			t.SetInfo(n.Data.ID, n.Data.Info)
		}
		if n.Position.Known() {
			positions[n.Data.ID] = *n.Position
		}
	}

	for _, e := range doc.Edges {
		err := t.AddRoute(e.Data.Source, e.Data.Target, topology.RouteAttrs{
			Weight:          e.Data.Weight,
			SourceIP:        e.Data.SourceIP,
			DestIP:          e.Data.DestIP,
			SourceInterface: e.Data.SourceInterface,
			TargetInterface: e.Data.TargetInterface,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("edge %s-%s: %w", e.Data.Source, e.Data.Target, err)
		}
	}

	return t, positions, nil
}

// UnmarshalDocument deserializes JSON bytes to a Document, distinguishing
// missing collections from empty ones. A document without both nodes and
// edges collections is rejected with a *MalformedTopologyError.
func UnmarshalDocument(data []byte) (Document, error) {
	var probe struct {
		Nodes *[]Node `json:"nodes"`
		Edges *[]Edge `json:"edges"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, &MalformedTopologyError{Reason: err.Error()}
	}
	if probe.Nodes == nil {
		return Document{}, &MalformedTopologyError{Reason: "missing nodes collection"}
	}
	if probe.Edges == nil {
		return Document{}, &MalformedTopologyError{Reason: "missing edges collection"}
	}
	return Document{Nodes: *probe.Nodes, Edges: *probe.Edges}, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTopologyTo(t *topology.Topology, positions map[string]Position, w io.Writer) error {
	doc := FromTopology(t, positions)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readTopologyFrom(r io.Reader) (*topology.Topology, map[string]Position, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read: %w", err)
	}
	doc, err := UnmarshalDocument(data)
	if err != nil {
		return nil, nil, err
	}
	return ToTopology(doc)
}
