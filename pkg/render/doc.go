// Package render turns an expanded, laid-out topology into diagrams and
// relays pointer interaction back into the layout engine.
//
// # Diagram generation
//
// [ToDOT] emits Graphviz DOT with every node pinned to its computed
// coordinates, so Graphviz (neato) draws exactly the embedding the layout
// engine produced instead of re-laying the graph out:
//
//	dot := render.ToDOT(topo, exp, engine.Positions(), render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// AS containers appear as dashed boxes, routers as green ellipses and
// interface nodes as small orange ellipses. Invisible hierarchy edges are
// omitted from the output entirely; they exist only to express containment.
//
// # Interaction
//
// [Pointer] is the boundary between a rendering surface and the layout
// engine. The surface forwards raw pointer-down/move/up events in layout
// coordinates; Pointer performs hit testing, drives drags through
// [layout.Engine.MoveNode], and recognizes double-clicks as inspection
// requests answered with device information.
package render
