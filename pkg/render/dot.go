package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/topology"
)

// posScale converts layout-frame coordinates ([-1,1]) into Graphviz points.
const posScale = 300.0

// Options configures diagram generation.
type Options struct {
	// Detailed appends device information to router labels. When false,
	// routers show only their display label.
	Detailed bool
}

// ToDOT converts an expanded topology and its position table to Graphviz DOT.
// Every node carries a pinned position ("x,y!"), so the neato engine renders
// the supplied embedding verbatim. The result is rendered with [RenderSVG] or
// [RenderPNG].
//
// Route edges that the expansion resolved to interface endpoints are drawn at
// the interface level; a route edge that names no interfaces on either side is
// drawn between its routers. Edges with unresolvable interface references were
// already dropped during expansion and do not reappear here.
func ToDOT(t *topology.Topology, x *topology.Expansion, pos map[string]layout.Point, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("\n")

	for _, g := range t.ASGroups() {
		id := topology.ASNodeID(g.Number)
		attrs := []string{
			fmt.Sprintf("label=%q", id),
			"shape=box",
			"style=dashed",
			"color=grey40",
			"fontcolor=grey40",
			pinAttr(pos, id),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}
	for _, r := range t.Routers() {
		attrs := []string{
			fmt.Sprintf("label=%q", routerLabel(t, r, opts.Detailed)),
			"shape=ellipse",
			"style=filled",
			"fillcolor=palegreen",
			pinAttr(pos, r.ID),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", r.ID, strings.Join(attrs, ", "))
	}
	for _, n := range x.Interfaces {
		attrs := []string{
			fmt.Sprintf("label=%q", n.Name),
			"shape=ellipse",
			"style=filled",
			"fillcolor=orange",
			"fontsize=9",
			fmt.Sprintf("tooltip=%q", n.IP),
			pinAttr(pos, n.ID),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, h := range x.Hierarchy {
		if h.Invisible {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [color=grey60];\n", h.Parent, h.Child)
	}
	for _, e := range x.Edges {
		fmt.Fprintf(&buf, "  %q -- %q [label=%q, fontsize=9];\n",
			e.Source, e.Target, edgeLabel(e.Weight, e.SourceIP, e.DestIP))
	}
	for _, re := range t.Edges() {
		if re.SourceInterface != "" || re.TargetInterface != "" {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [label=%q, fontsize=9];\n",
			re.Source, re.Target, edgeLabel(re.Weight, re.SourceIP, re.DestIP))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pinAttr(pos map[string]layout.Point, id string) string {
	p := pos[id]
	return fmt.Sprintf("pos=\"%.4f,%.4f!\"", p.X*posScale, p.Y*posScale)
}

func routerLabel(t *topology.Topology, r *topology.Router, detailed bool) string {
	if !detailed {
		return r.DisplayLabel()
	}
	return r.DisplayLabel() + "\n" + t.Info(r.ID)
}

// edgeLabel formats a route edge label: the weight, plus the host numbers of
// the two endpoint addresses when both are known, e.g. "10.1.1.0/24 (.1, .2)".
func edgeLabel(weight, sourceIP, destIP string) string {
	a, b := hostNumber(sourceIP), hostNumber(destIP)
	if a == "" || b == "" {
		return weight
	}
	return fmt.Sprintf("%s (.%s, .%s)", weight, a, b)
}

// hostNumber extracts the final octet of an IPv4 address in CIDR notation.
// Returns "" when the address does not look like dotted-quad CIDR.
func hostNumber(cidr string) string {
	addr, _, ok := strings.Cut(cidr, "/")
	if !ok {
		addr = cidr
	}
	parts := strings.Split(addr, ".")
	if len(parts) != 4 || parts[3] == "" {
		return ""
	}
	return parts[3]
}
