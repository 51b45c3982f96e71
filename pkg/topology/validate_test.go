package topology

import (
	"errors"
	"testing"
)

// threeRouterSample builds the R1(AS100), R2(AS200), R3(AS200) scenario with
// edges R1→R2 and R2→R3 and no interface declarations.
func threeRouterSample(t *testing.T) *Topology {
	t.Helper()
	tp := New()
	for _, r := range []struct {
		id string
		as int
	}{{"R1", 100}, {"R2", 200}, {"R3", 200}} {
		if err := tp.AddRouter(r.id, r.id, r.as, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := tp.AddRoute("R1", "R2", RouteAttrs{Weight: "10.12.12.0/24"}); err != nil {
		t.Fatal(err)
	}
	if err := tp.AddRoute("R2", "R3", RouteAttrs{Weight: "10.23.23.0/24"}); err != nil {
		t.Fatal(err)
	}
	return tp
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *Topology
		check func(t *testing.T, err error)
	}{
		{
			name:  "NoInterfacesPasses",
			build: threeRouterSample,
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
			},
		},
		{
			name: "MissingEndpoint",
			build: func(t *testing.T) *Topology {
				tp := threeRouterSample(t)
				// Bypass AddRoute's own check the way a corrupt import would.
				tp.edges = append(tp.edges, RouteEdge{Source: "R9", Target: "R1"})
				return tp
			},
			check: func(t *testing.T, err error) {
				var invalid *InvalidEdgeError
				if !errors.As(err, &invalid) {
					t.Fatalf("error = %v, want InvalidEdgeError", err)
				}
				if invalid.Missing != "R9" {
					t.Errorf("missing = %q, want R9", invalid.Missing)
				}
			},
		},
		{
			name: "UnknownInterface",
			build: func(t *testing.T) *Topology {
				tp := New()
				tp.AddRouter("R1", "R1", 100, []Interface{{Name: "Gi0/1", CIDR: "10.0.0.1/24"}})
				tp.AddRouter("R2", "R2", 200, []Interface{{Name: "Gi0/1", CIDR: "10.0.0.2/24"}})
				tp.AddRoute("R1", "R2", RouteAttrs{
					SourceInterface: "Gi0/0",
					TargetInterface: "Gi0/1",
				})
				return tp
			},
			check: func(t *testing.T, err error) {
				var unknown *UnknownInterfaceError
				if !errors.As(err, &unknown) {
					t.Fatalf("error = %v, want UnknownInterfaceError", err)
				}
				if unknown.Router != "R1" || unknown.Interface != "Gi0/0" {
					t.Errorf("got %+v, want router R1 interface Gi0/0", unknown)
				}
			},
		},
		{
			name: "InterfaceOnRouterWithoutTable",
			build: func(t *testing.T) *Topology {
				// Edge names an interface but the router declares no table at
				// all; the reference format treats the table as optional.
				tp := New()
				tp.AddRouter("R1", "R1", 100, nil)
				tp.AddRouter("R2", "R2", 200, nil)
				tp.AddRoute("R1", "R2", RouteAttrs{SourceInterface: "Gi0/0"})
				return tp
			},
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
			},
		},
		{
			name: "InterfaceNodeCollision",
			build: func(t *testing.T) *Topology {
				tp := New()
				tp.AddRouter("R1_a", "R1_a", 100, []Interface{{Name: "b", CIDR: "10.0.0.1/24"}})
				tp.AddRouter("R1", "R1", 100, []Interface{{Name: "a_b", CIDR: "10.0.0.2/24"}})
				return tp
			},
			check: func(t *testing.T, err error) {
				var dup *DuplicateInterfaceNodeError
				if !errors.As(err, &dup) {
					t.Fatalf("error = %v, want DuplicateInterfaceNodeError", err)
				}
				if dup.ID != "R1_a_b" {
					t.Errorf("ID = %q, want R1_a_b", dup.ID)
				}
			},
		},
		{
			name:  "Nil",
			build: func(t *testing.T) *Topology { return nil },
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNilTopology) {
					t.Fatalf("error = %v, want ErrNilTopology", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Validate(tt.build(t)))
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	tp := threeRouterSample(t)
	before := tp.EdgeCount()
	if err := Validate(tp); err != nil {
		t.Fatal(err)
	}
	if tp.EdgeCount() != before || tp.RouterCount() != 3 {
		t.Error("Validate mutated the topology")
	}
}
