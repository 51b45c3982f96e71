package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/routeviz/bgpmap/pkg/topology"
)

func sampleTopology(t *testing.T) *topology.Topology {
	t.Helper()
	tp := topology.New()
	tp.AddRouter("R1", "R1 (1.1.1.0/24)", 100, []topology.Interface{
		{Name: "Gi0/0", CIDR: "10.12.12.1/24"},
	})
	tp.AddRouter("R2", "R2 (2.2.2.0/24)", 200, []topology.Interface{
		{Name: "Gi0/0", CIDR: "10.12.12.2/24"},
	})
	tp.AddRoute("R1", "R2", topology.RouteAttrs{
		Weight:          "10.12.12.0/24",
		SourceIP:        "10.12.12.1/24",
		DestIP:          "10.12.12.2/24",
		SourceInterface: "Gi0/0",
		TargetInterface: "Gi0/0",
	})
	tp.SetInfo("R1", "Router R1\nModelo: Cisco Router")
	return tp
}

func TestMarshalTopology(t *testing.T) {
	tp := sampleTopology(t)
	positions := map[string]Position{"R1": *At(200, 200)}

	data, err := MarshalTopology(tp, positions)
	if err != nil {
		t.Fatalf("MarshalTopology: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(doc.Nodes) != 2 || len(doc.Edges) != 1 {
		t.Fatalf("nodes = %d edges = %d, want 2/1", len(doc.Nodes), len(doc.Edges))
	}
	if doc.Nodes[0].Data.ID != "R1" || !doc.Nodes[0].Position.Known() {
		t.Errorf("R1 node = %+v, want position carried", doc.Nodes[0])
	}
	if doc.Nodes[1].Position != nil {
		t.Errorf("R2 position = %+v, want null", doc.Nodes[1].Position)
	}
	if doc.Edges[0].Data.ID != "R1-R2" {
		t.Errorf("edge id = %q, want R1-R2", doc.Edges[0].Data.ID)
	}
}

func TestReadTopology(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantRouters int
		wantEdges   int
		wantErr     bool
		malformed   bool
	}{
		{
			name: "Valid",
			input: `{
				"nodes": [
					{"data": {"id": "R1", "label": "R1", "as": 100}, "position": {"x": 1.5, "y": -2}},
					{"data": {"id": "R2", "label": "R2", "as": 200}, "position": null}
				],
				"edges": [
					{"data": {"id": "R1-R2", "source": "R1", "target": "R2",
					          "weight": "10.0.0.0/24",
					          "source_ip": "10.0.0.1/24", "dest_ip": "10.0.0.2/24"}}
				]
			}`,
			wantRouters: 2,
			wantEdges:   1,
		},
		{
			name:        "Empty",
			input:       `{"nodes": [], "edges": []}`,
			wantRouters: 0,
			wantEdges:   0,
		},
		{
			name:      "MissingNodes",
			input:     `{"edges": []}`,
			wantErr:   true,
			malformed: true,
		},
		{
			name:      "MissingEdges",
			input:     `{"nodes": []}`,
			wantErr:   true,
			malformed: true,
		},
		{
			name:      "InvalidJSON",
			input:     `{invalid`,
			wantErr:   true,
			malformed: true,
		},
		{
			name: "UnknownEdgeEndpoint",
			input: `{
				"nodes": [{"data": {"id": "R1", "label": "R1", "as": 100}, "position": null}],
				"edges": [{"data": {"id": "R1-R9", "source": "R1", "target": "R9",
				           "weight": "", "source_ip": "", "dest_ip": ""}}]
			}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, positions, err := ReadTopology(strings.NewReader(tt.input))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var malformed *MalformedTopologyError
				if tt.malformed && !errors.As(err, &malformed) {
					t.Fatalf("error = %v, want MalformedTopologyError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadTopology: %v", err)
			}
			if got := tp.RouterCount(); got != tt.wantRouters {
				t.Errorf("routers = %d, want %d", got, tt.wantRouters)
			}
			if got := tp.EdgeCount(); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			if tt.name == "Valid" {
				if p, ok := positions["R1"]; !ok || *p.X != 1.5 || *p.Y != -2 {
					t.Errorf("positions[R1] = %+v, want (1.5, -2)", p)
				}
				if _, ok := positions["R2"]; ok {
					t.Error("positions[R2] present, want absent for null position")
				}
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tp := sampleTopology(t)

	var buf bytes.Buffer
	if err := WriteTopology(tp, nil, &buf); err != nil {
		t.Fatalf("WriteTopology: %v", err)
	}

	got, _, err := ReadTopology(&buf)
	if err != nil {
		t.Fatalf("ReadTopology: %v", err)
	}
	if err := topology.Validate(got); err != nil {
		t.Fatalf("re-imported topology invalid: %v", err)
	}

	a := topology.Expand(tp)
	b := topology.Expand(got)
	if !reflect.DeepEqual(a.Interfaces, b.Interfaces) {
		t.Error("interface sets differ after round trip")
	}
	if !reflect.DeepEqual(a.Edges, b.Edges) {
		t.Error("transformed edge sets differ after round trip")
	}
	if got.Info("R1") != tp.Info("R1") {
		t.Error("device info lost in round trip")
	}
}

func TestExportDeterministic(t *testing.T) {
	tp := sampleTopology(t)
	a, err := MarshalTopology(tp, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalTopology(tp, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("repeated exports are not byte-identical")
	}
}

func TestWriteTopologyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bgp_graph.json")

	if err := WriteTopologyFile(sampleTopology(t), nil, path); err != nil {
		t.Fatalf("WriteTopologyFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}

	tp, _, err := ReadTopologyFile(path)
	if err != nil {
		t.Fatalf("ReadTopologyFile: %v", err)
	}
	if tp.RouterCount() != 2 {
		t.Errorf("routers = %d, want 2", tp.RouterCount())
	}
}

func TestReadTopologyFileNotFound(t *testing.T) {
	_, _, err := ReadTopologyFile("nonexistent.json")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}
