package topology

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidRouterID is returned by [Topology.AddRouter] when the router ID is
// empty. All routers must have non-empty identifiers.
var ErrInvalidRouterID = errors.New("router ID must not be empty")

// Topology is the canonical set of routers and directed route edges.
// Routers are kept in insertion order so that derivation and layout are
// reproducible. Topology is not safe for concurrent use without external
// synchronization.
type Topology struct {
	routers map[string]*Router
	order   []string
	edges   []RouteEdge
	info    map[string]string
}

// New creates an empty topology.
func New() *Topology {
	return &Topology{
		routers: make(map[string]*Router),
		info:    make(map[string]string),
	}
}

// AddRouter adds a router with an optional ordered interface declaration.
// Returns ErrInvalidRouterID for an empty ID or a *DuplicateRouterError if the
// ID is already present.
func (t *Topology) AddRouter(id, label string, asNumber int, ifaces []Interface) error {
	if id == "" {
		return ErrInvalidRouterID
	}
	if _, exists := t.routers[id]; exists {
		return &DuplicateRouterError{ID: id}
	}
	r := &Router{
		ID:       id,
		Label:    label,
		AS:       asNumber,
		ifaceIdx: make(map[string]int),
	}
	for _, iface := range ifaces {
		if _, dup := r.ifaceIdx[iface.Name]; dup {
			return fmt.Errorf("router %q declares interface %q twice", id, iface.Name)
		}
		r.ifaceIdx[iface.Name] = len(r.ifaces)
		r.ifaces = append(r.ifaces, iface)
	}
	t.routers[id] = r
	t.order = append(t.order, id)
	return nil
}

// SetInterface adds or updates an interface on an existing router. New names
// are appended to the declaration order; existing names keep their position.
func (t *Topology) SetInterface(routerID, name, cidr string) error {
	r, ok := t.routers[routerID]
	if !ok {
		return fmt.Errorf("unknown router %q", routerID)
	}
	if i, exists := r.ifaceIdx[name]; exists {
		r.ifaces[i].CIDR = cidr
		return nil
	}
	r.ifaceIdx[name] = len(r.ifaces)
	r.ifaces = append(r.ifaces, Interface{Name: name, CIDR: cidr})
	return nil
}

// AddRoute adds a directed route edge. Returns an *UnknownEndpointError if
// either endpoint is absent. Callers wanting a bidirectional link must add the
// reverse edge explicitly.
func (t *Topology) AddRoute(source, target string, attrs RouteAttrs) error {
	if _, ok := t.routers[source]; !ok {
		return &UnknownEndpointError{Source: source, Target: target, Missing: source}
	}
	if _, ok := t.routers[target]; !ok {
		return &UnknownEndpointError{Source: source, Target: target, Missing: target}
	}
	t.edges = append(t.edges, RouteEdge{Source: source, Target: target, RouteAttrs: attrs})
	return nil
}

// Router returns the router with the given ID and whether it exists.
func (t *Topology) Router(id string) (*Router, bool) {
	r, ok := t.routers[id]
	return r, ok
}

// Routers returns all routers in insertion order. The slice is a fresh copy;
// the pointed-to routers are the live instances, which callers must treat as
// read-only.
func (t *Topology) Routers() []*Router {
	out := make([]*Router, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.routers[id])
	}
	return out
}

// Edges returns a copy of all route edges in insertion order.
func (t *Topology) Edges() []RouteEdge { return slices.Clone(t.edges) }

// RouterCount returns the number of routers.
func (t *Topology) RouterCount() int { return len(t.routers) }

// EdgeCount returns the number of route edges.
func (t *Topology) EdgeCount() int { return len(t.edges) }

// ASGroups derives the autonomous-system membership from each router's AS
// field. Groups appear in order of first member insertion, members in router
// insertion order, so the result is stable for a fixed construction order.
func (t *Topology) ASGroups() []ASGroup {
	idx := make(map[int]int)
	var groups []ASGroup
	for _, id := range t.order {
		asn := t.routers[id].AS
		i, seen := idx[asn]
		if !seen {
			i = len(groups)
			idx[asn] = i
			groups = append(groups, ASGroup{Number: asn})
		}
		groups[i].Members = append(groups[i].Members, id)
	}
	return groups
}

// SetInfo attaches a free-form device info string to a node ID. The string is
// what the renderer shows in popups and tooltips.
func (t *Topology) SetInfo(id, info string) { t.info[id] = info }

// Info returns the device info string for a node ID. Unknown IDs get a
// default fallback message so renderers never need a nil check.
func (t *Topology) Info(id string) string {
	if s, ok := t.info[id]; ok {
		return s
	}
	return fmt.Sprintf("no information available for %s", id)
}

// InfoEntries returns a copy of all explicitly registered info strings.
func (t *Topology) InfoEntries() map[string]string {
	out := make(map[string]string, len(t.info))
	for k, v := range t.info {
		out[k] = v
	}
	return out
}
