package topology

import "errors"

// ErrNilTopology is returned by [Validate] when the topology is nil.
var ErrNilTopology = errors.New("topology is nil")

// Validate checks the structural consistency of a topology before expansion
// and layout. It is pure (no mutation) and fail-fast: the first violation
// found is returned and later edges are not inspected.
//
// Checks run in order:
//
//  1. The topology and its containers are well-formed.
//  2. Every edge endpoint references an existing router
//     (*InvalidEdgeError naming the missing ID).
//  3. Every interface name declared on an edge exists in the corresponding
//     router's interface table (*UnknownInterfaceError).
//  4. Derived interface-node IDs are unique across the whole topology
//     (*DuplicateInterfaceNodeError).
//
// A topology built exclusively through [Topology.AddRouter] and
// [Topology.AddRoute] cannot fail check 2, but imported interchange files are
// decoded into the same structures and must be re-checked here.
func Validate(t *Topology) error {
	if t == nil {
		return ErrNilTopology
	}

	for _, e := range t.edges {
		src, okSrc := t.routers[e.Source]
		if !okSrc {
			return &InvalidEdgeError{Source: e.Source, Target: e.Target, Missing: e.Source}
		}
		dst, okDst := t.routers[e.Target]
		if !okDst {
			return &InvalidEdgeError{Source: e.Source, Target: e.Target, Missing: e.Target}
		}

		// An interface reference is only checked against routers that declare
		// an interface table at all, mirroring the import format where the
		// table itself is optional.
		if e.SourceInterface != "" && src.HasInterfaces() {
			if _, ok := src.Interface(e.SourceInterface); !ok {
				return &UnknownInterfaceError{Router: e.Source, Interface: e.SourceInterface}
			}
		}
		if e.TargetInterface != "" && dst.HasInterfaces() {
			if _, ok := dst.Interface(e.TargetInterface); !ok {
				return &UnknownInterfaceError{Router: e.Target, Interface: e.TargetInterface}
			}
		}
	}

	seen := make(map[string]struct{})
	for _, id := range t.order {
		for _, iface := range t.routers[id].ifaces {
			nid := InterfaceNodeID(id, iface.Name)
			if _, dup := seen[nid]; dup {
				return &DuplicateInterfaceNodeError{ID: nid}
			}
			seen[nid] = struct{}{}
		}
	}

	return nil
}
