package render

import (
	"strings"
	"testing"

	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/topology"
)

func renderSample(t *testing.T) (*topology.Topology, *topology.Expansion, *layout.Engine) {
	t.Helper()
	tp := topology.New()
	tp.AddRouter("R1", "R1", 100, []topology.Interface{{Name: "Gi0/0", CIDR: "10.12.12.1/24"}})
	tp.AddRouter("R2", "R2", 200, []topology.Interface{{Name: "Gi0/0", CIDR: "10.12.12.2/24"}})
	tp.AddRouter("R3", "R3", 200, nil)
	tp.AddRoute("R1", "R2", topology.RouteAttrs{
		Weight:          "10.12.12.0/24",
		SourceIP:        "10.12.12.1/24",
		DestIP:          "10.12.12.2/24",
		SourceInterface: "Gi0/0",
		TargetInterface: "Gi0/0",
	})
	tp.AddRoute("R2", "R3", topology.RouteAttrs{Weight: "10.23.23.0/24"})
	if err := topology.Validate(tp); err != nil {
		t.Fatal(err)
	}
	x := topology.Expand(tp)

	e := layout.NewEngine(layout.Options{})
	if err := e.Layout(tp, x, nil); err != nil {
		t.Fatal(err)
	}
	return tp, x, e
}

func TestToDOTPinsEveryNode(t *testing.T) {
	tp, x, e := renderSample(t)
	dot := ToDOT(tp, x, e.Positions(), Options{})

	for _, id := range []string{"AS100", "AS200", "R1", "R2", "R3", "R1_Gi0/0", "R2_Gi0/0"} {
		if !strings.Contains(dot, `"`+id+`"`) {
			t.Errorf("node %s missing from DOT", id)
		}
	}
	if n := strings.Count(dot, `!"`); n != 7 {
		t.Errorf("pinned positions = %d, want 7", n)
	}
}

func TestToDOTEdgeLabels(t *testing.T) {
	tp, x, e := renderSample(t)
	dot := ToDOT(tp, x, e.Positions(), Options{})

	if !strings.Contains(dot, `label="10.12.12.0/24 (.1, .2)"`) {
		t.Error("interface-level edge label with host numbers missing")
	}
	if !strings.Contains(dot, `"R1_Gi0/0" -- "R2_Gi0/0"`) {
		t.Error("transformed edge not drawn between interface nodes")
	}
}

func TestToDOTHierarchy(t *testing.T) {
	tp, x, e := renderSample(t)
	dot := ToDOT(tp, x, e.Positions(), Options{})

	if strings.Contains(dot, `"AS100" -- "R1"`) {
		t.Error("invisible containment edge leaked into DOT")
	}
	if !strings.Contains(dot, `"R1" -- "R1_Gi0/0"`) {
		t.Error("router-to-interface edge missing")
	}
}

func TestToDOTRouterLevelEdge(t *testing.T) {
	tp, x, e := renderSample(t)
	dot := ToDOT(tp, x, e.Positions(), Options{})

	if !strings.Contains(dot, `"R2" -- "R3" [label="10.23.23.0/24"`) {
		t.Error("route without interface references not drawn at router level")
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	tp, x, e := renderSample(t)
	tp.SetInfo("R1", "IOS 15.2, uptime 4d")

	dot := ToDOT(tp, x, e.Positions(), Options{Detailed: true})
	if !strings.Contains(dot, "IOS 15.2, uptime 4d") {
		t.Error("detailed label missing device information")
	}
	if !strings.Contains(dot, "no information available for R2") {
		t.Error("detailed label missing fallback text for R2")
	}
}

func TestEdgeLabel(t *testing.T) {
	tests := []struct {
		name                     string
		weight, sourceIP, destIP string
		want                     string
	}{
		{"BothHosts", "10.1.1.0/24", "10.1.1.1/24", "10.1.1.2/24", "10.1.1.0/24 (.1, .2)"},
		{"BareAddresses", "w", "192.168.0.10", "192.168.0.20", "w (.10, .20)"},
		{"MissingSource", "10.1.1.0/24", "", "10.1.1.2/24", "10.1.1.0/24"},
		{"MissingBoth", "10.1.1.0/24", "", "", "10.1.1.0/24"},
		{"NotDottedQuad", "w", "fe80::1/64", "10.0.0.2/24", "w"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := edgeLabel(tt.weight, tt.sourceIP, tt.destIP); got != tt.want {
				t.Errorf("edgeLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>` + "\n" +
		`<svg width="8pt" height="6pt" viewBox="0.00 0.00 150.50 80.25" xmlns="http://www.w3.org/2000/svg">` +
		`<g></g></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 150.50 80.25"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="150" height="80"`) {
		t.Errorf("pixel dimensions missing: %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Error("svg without viewBox should pass through unchanged")
	}
}
