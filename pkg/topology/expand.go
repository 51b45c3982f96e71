package topology

// InterfaceNode is a derived node representing one declared router interface.
// Its lifetime is tied to the expansion that produced it: expansions are
// regenerated whenever the underlying router set changes.
type InterfaceNode struct {
	ID     string // "{routerID}_{interfaceName}"
	Router string // back-reference to the owning router
	Name   string // interface name, used as the display label
	IP     string // CIDR address from the router's interface table
}

// HierarchyKind distinguishes the two containment relations in the derived
// graph.
type HierarchyKind int

const (
	// HierarchyASRouter is the AS-container → router containment edge.
	// These edges are invisible: they anchor layout but are never drawn.
	HierarchyASRouter HierarchyKind = iota
	// HierarchyRouterInterface is the router → interface containment edge,
	// drawn as a short visible stub.
	HierarchyRouterInterface
)

// HierarchicalEdge expresses containment (AS contains router, router contains
// interface). It is used only for layout anchoring, never for route semantics.
type HierarchicalEdge struct {
	Parent    string
	Child     string
	Kind      HierarchyKind
	Invisible bool
}

// TransformedEdge is a route edge re-targeted to connect interface nodes
// instead of router nodes, carrying the original display weight.
type TransformedEdge struct {
	Source   string // interface node ID
	Target   string // interface node ID
	Weight   string
	SourceIP string
	DestIP   string
}

// Expansion is the derived multi-layer graph produced by [Expand].
type Expansion struct {
	Interfaces []InterfaceNode
	Edges      []TransformedEdge
	Hierarchy  []HierarchicalEdge

	ifaceIdx map[string]int
}

// Interface returns the interface node with the given derived ID.
func (x *Expansion) Interface(id string) (InterfaceNode, bool) {
	i, ok := x.ifaceIdx[id]
	if !ok {
		return InterfaceNode{}, false
	}
	return x.Interfaces[i], true
}

// HasInterface reports whether the derived ID exists in the expansion.
func (x *Expansion) HasInterface(id string) bool {
	_, ok := x.ifaceIdx[id]
	return ok
}

// Expand derives the secondary graph from a validated topology:
//
//  1. One interface node per declared (router, interface) pair, independent of
//     whether any edge references it.
//  2. One transformed edge per route edge whose source and target interface
//     names are both declared and resolve to existing interface nodes. Edges
//     whose references do not resolve are dropped from the transformed set —
//     in particular, a topology with no interface declarations expands to zero
//     transformed edges. This drop policy is deliberate and matches the
//     reference behavior; see the package documentation.
//  3. Hierarchical containment edges: AS→router (invisible) for every router
//     and router→interface (visible) for every declared interface.
//
// Output order follows router insertion order and interface declaration
// order, so identical input order yields identical output order.
func Expand(t *Topology) *Expansion {
	x := &Expansion{ifaceIdx: make(map[string]int)}

	for _, id := range t.order {
		r := t.routers[id]
		x.Hierarchy = append(x.Hierarchy, HierarchicalEdge{
			Parent:    ASNodeID(r.AS),
			Child:     r.ID,
			Kind:      HierarchyASRouter,
			Invisible: true,
		})
		for _, iface := range r.ifaces {
			node := InterfaceNode{
				ID:     InterfaceNodeID(r.ID, iface.Name),
				Router: r.ID,
				Name:   iface.Name,
				IP:     iface.CIDR,
			}
			x.ifaceIdx[node.ID] = len(x.Interfaces)
			x.Interfaces = append(x.Interfaces, node)
			x.Hierarchy = append(x.Hierarchy, HierarchicalEdge{
				Parent: r.ID,
				Child:  node.ID,
				Kind:   HierarchyRouterInterface,
			})
		}
	}

	for _, e := range t.edges {
		if e.SourceInterface == "" || e.TargetInterface == "" {
			continue
		}
		src := InterfaceNodeID(e.Source, e.SourceInterface)
		dst := InterfaceNodeID(e.Target, e.TargetInterface)
		if !x.HasInterface(src) || !x.HasInterface(dst) {
			continue
		}
		x.Edges = append(x.Edges, TransformedEdge{
			Source:   src,
			Target:   dst,
			Weight:   e.Weight,
			SourceIP: e.SourceIP,
			DestIP:   e.DestIP,
		})
	}

	return x
}
