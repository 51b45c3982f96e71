// Package layout assigns 2-D coordinates to every node of an expanded BGP
// topology.
//
// Two placement strategies are combined:
//
//   - Router nodes get a force-directed (Fruchterman–Reingold style) embedding
//     of the router-level graph with uniform edge weights. The simulation is
//     seeded, so identical input produces identical coordinates — a hard
//     requirement for reproducible diagrams and golden-output tests.
//   - Derived nodes are placed relative to their anchors: AS containers sit at
//     the arithmetic mean of their member routers, and interface nodes sit at
//     a small radial offset from their owning router toward the far endpoint
//     of the route edge that names them.
//
// The [Engine] exclusively owns the position table. Drag interaction goes
// through [Engine.MoveNode], which translates exactly one node in O(1); no
// physics re-simulation happens on drag. Renderers call
// [Engine.RecenterGroups] before a redraw to refresh AS centroids.
package layout
