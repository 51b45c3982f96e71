package topology

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genTopology builds a random but structurally valid topology from generated
// sizes: router count, interfaces per router, and a set of edge index pairs.
func buildRandomTopology(routerCount, ifacesPerRouter int, edgePairs []int) *Topology {
	tp := New()
	for i := 0; i < routerCount; i++ {
		id := fmt.Sprintf("R%d", i+1)
		var ifaces []Interface
		for j := 0; j < ifacesPerRouter; j++ {
			ifaces = append(ifaces, Interface{
				Name: fmt.Sprintf("eth%d", j),
				CIDR: fmt.Sprintf("10.%d.%d.1/24", i+1, j),
			})
		}
		tp.AddRouter(id, id, 100*(i%3+1), ifaces)
	}
	for i := 0; i+1 < len(edgePairs); i += 2 {
		src := fmt.Sprintf("R%d", edgePairs[i]%routerCount+1)
		dst := fmt.Sprintf("R%d", edgePairs[i+1]%routerCount+1)
		attrs := RouteAttrs{Weight: "10.0.0.0/24"}
		if ifacesPerRouter > 0 {
			attrs.SourceInterface = "eth0"
			attrs.TargetInterface = "eth0"
		}
		tp.AddRoute(src, dst, attrs)
	}
	return tp
}

// TestExpansionInvariants verifies properties that must hold for any topology
// built through the public API, regardless of shape.
func TestExpansionInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("expansion is deterministic", prop.ForAll(
		func(routers, ifaces int, pairs []int) bool {
			tp := buildRandomTopology(routers, ifaces, pairs)
			if Validate(tp) != nil {
				return true
			}
			a, b := Expand(tp), Expand(tp)
			return reflect.DeepEqual(a.Interfaces, b.Interfaces) &&
				reflect.DeepEqual(a.Edges, b.Edges) &&
				reflect.DeepEqual(a.Hierarchy, b.Hierarchy)
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 4),
		gen.SliceOf(gen.IntRange(0, 63)),
	))

	properties.Property("transformed edges resolve to interface nodes", prop.ForAll(
		func(routers, ifaces int, pairs []int) bool {
			tp := buildRandomTopology(routers, ifaces, pairs)
			if Validate(tp) != nil {
				return true
			}
			x := Expand(tp)
			for _, e := range x.Edges {
				if !x.HasInterface(e.Source) || !x.HasInterface(e.Target) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 4),
		gen.SliceOf(gen.IntRange(0, 63)),
	))

	properties.Property("AS groups partition the router set", prop.ForAll(
		func(routers, ifaces int, pairs []int) bool {
			tp := buildRandomTopology(routers, ifaces, pairs)
			seen := make(map[string]bool)
			for _, g := range tp.ASGroups() {
				for _, id := range g.Members {
					if seen[id] {
						return false // overlap
					}
					seen[id] = true
				}
			}
			return len(seen) == tp.RouterCount()
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 4),
		gen.SliceOf(gen.IntRange(0, 63)),
	))

	properties.TestingRun(t)
}
