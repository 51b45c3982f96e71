// Package topology implements the canonical BGP topology model.
//
// A [Topology] owns routers, their interface declarations, and directed route
// edges between routers. Autonomous-system groups are derived from each
// router's AS field rather than authored independently, so membership always
// partitions the router set.
//
// The package also implements the two passes that run before layout:
//
//   - [Validate] checks referential integrity of a topology: every edge
//     endpoint must name an existing router, and every interface named by an
//     edge must exist in that router's interface table. Validation is pure and
//     fail-fast: the first violation is reported and nothing is mutated.
//   - [Expand] derives the secondary graph used for drawing: one interface
//     node per declared (router, interface) pair, transformed route edges that
//     connect interface nodes, and hierarchical containment edges used only
//     for layout anchoring.
//
// Both passes are deterministic: for a fixed router and interface declaration
// order, they produce identical output on every run. This property is what
// makes layouts reproducible and golden-output tests possible.
//
// # Usage
//
//	t := topology.New()
//	t.AddRouter("R1", "R1 (1.1.1.0/24)", 100, nil)
//	t.AddRouter("R2", "R2 (2.2.2.0/24)", 200, nil)
//	t.AddRoute("R1", "R2", topology.RouteAttrs{Weight: "10.12.12.0/24"})
//
//	if err := topology.Validate(t); err != nil {
//	    return err
//	}
//	x := topology.Expand(t)
package topology
