package graph

import "fmt"

// Document is the top-level interchange structure. Both collections are
// required; a missing collection marks the document malformed.
type Document struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node wraps the router payload with an optional last-known position.
type Node struct {
	Data     NodeData  `json:"data" bson:"data"`
	Position *Position `json:"position" bson:"position"`
}

// NodeData is the router payload of an interchange node.
type NodeData struct {
	ID         string            `json:"id" bson:"id"`
	Label      string            `json:"label" bson:"label"`
	AS         int               `json:"as" bson:"as"`
	Interfaces map[string]string `json:"interfaces,omitempty" bson:"interfaces,omitempty"`
	Info       string            `json:"info,omitempty" bson:"info,omitempty"`
}

// Position is a nullable 2-D coordinate. Either coordinate may be null for
// nodes that were exported before any layout ran.
type Position struct {
	X *float64 `json:"x" bson:"x"`
	Y *float64 `json:"y" bson:"y"`
}

// At builds a concrete position.
func At(x, y float64) *Position {
	return &Position{X: &x, Y: &y}
}

// Known reports whether both coordinates are present.
func (p *Position) Known() bool {
	return p != nil && p.X != nil && p.Y != nil
}

// Edge wraps a directed route payload.
type Edge struct {
	Data EdgeData `json:"data" bson:"data"`
}

// EdgeData is the route payload of an interchange edge. The interface fields
// keep their historical camelCase keys for compatibility with existing files.
type EdgeData struct {
	ID              string `json:"id" bson:"id"`
	Source          string `json:"source" bson:"source"`
	Target          string `json:"target" bson:"target"`
	Weight          string `json:"weight" bson:"weight"`
	SourceIP        string `json:"source_ip" bson:"source_ip"`
	DestIP          string `json:"dest_ip" bson:"dest_ip"`
	SourceInterface string `json:"sourceInterface,omitempty" bson:"sourceInterface,omitempty"`
	TargetInterface string `json:"targetInterface,omitempty" bson:"targetInterface,omitempty"`
}

// MalformedTopologyError is returned by import when the document is not a
// well-formed interchange file (unparsable JSON or missing collections).
type MalformedTopologyError struct {
	Reason string
}

func (e *MalformedTopologyError) Error() string {
	return fmt.Sprintf("malformed topology document: %s", e.Reason)
}
