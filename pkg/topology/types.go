package topology

import "fmt"

// Interface is a named network-facing port on a router with its CIDR address.
// Declaration order is preserved so that derived graphs are order-stable.
type Interface struct {
	Name string `json:"name"`
	CIDR string `json:"cidr"`
}

// Router is a node in the canonical topology. Identity is immutable after
// creation; only the interface table may grow via [Topology.SetInterface].
type Router struct {
	ID    string // unique identifier
	Label string // display label (defaults to ID)
	AS    int    // owning autonomous-system number

	ifaces   []Interface
	ifaceIdx map[string]int
}

// DisplayLabel returns the label if set, otherwise the ID.
func (r *Router) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.ID
}

// Interfaces returns the router's interface declarations in declaration order.
// The returned slice is a copy.
func (r *Router) Interfaces() []Interface {
	out := make([]Interface, len(r.ifaces))
	copy(out, r.ifaces)
	return out
}

// Interface returns the CIDR for the named interface and whether it exists.
func (r *Router) Interface(name string) (string, bool) {
	i, ok := r.ifaceIdx[name]
	if !ok {
		return "", false
	}
	return r.ifaces[i].CIDR, true
}

// HasInterfaces reports whether the router declares any interfaces.
func (r *Router) HasInterfaces() bool { return len(r.ifaces) > 0 }

// RouteAttrs carries the optional attributes of a route edge. It is a fixed
// record rather than an open key/value bag so that the weight, interface, and
// IP roles stay distinct.
type RouteAttrs struct {
	Weight          string // display weight/label, typically the link subnet CIDR
	SourceIP        string // IP of the source endpoint on this link
	DestIP          string // IP of the destination endpoint on this link
	SourceInterface string // interface name on the source router, optional
	TargetInterface string // interface name on the target router, optional
}

// RouteEdge is a directed route between two routers. A bidirectional link is
// modeled as two opposing RouteEdges.
type RouteEdge struct {
	Source string
	Target string
	RouteAttrs
}

// EdgeID returns the conventional identifier for the edge, "source-target".
func (e RouteEdge) EdgeID() string { return e.Source + "-" + e.Target }

// ASGroup is the derived membership of one autonomous system. Members appear
// in router insertion order.
type ASGroup struct {
	Number  int
	Members []string
}

// ASNodeID returns the derived container node identifier for an AS number.
func ASNodeID(asn int) string { return fmt.Sprintf("AS%d", asn) }

// InterfaceNodeID returns the derived node identifier for a router interface.
func InterfaceNodeID(routerID, ifName string) string {
	return routerID + "_" + ifName
}
