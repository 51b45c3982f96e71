package layout

import (
	"math"
	"reflect"
	"testing"
)

func TestSpringPositionsDeterministic(t *testing.T) {
	ids := []string{"R1", "R2", "R3", "R4", "R5"}
	edges := [][2]string{{"R1", "R2"}, {"R2", "R3"}, {"R2", "R4"}, {"R3", "R5"}}

	a := springPositions(ids, edges, 42, 50)
	b := springPositions(ids, edges, 42, 50)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different embeddings")
	}

	c := springPositions(ids, edges, 7, 50)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical embeddings")
	}
}

func TestSpringPositionsCoverage(t *testing.T) {
	ids := []string{"R1", "R2", "R3"}
	pos := springPositions(ids, [][2]string{{"R1", "R2"}}, 42, 50)

	if len(pos) != len(ids) {
		t.Fatalf("positions = %d, want %d", len(pos), len(ids))
	}
	for id, p := range pos {
		if math.Abs(p.X) > 1+1e-9 || math.Abs(p.Y) > 1+1e-9 {
			t.Errorf("%s = %+v outside [-1,1]", id, p)
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("%s = %+v has NaN coordinate", id, p)
		}
	}
}

func TestSpringPositionsDegenerate(t *testing.T) {
	if got := springPositions(nil, nil, 42, 50); len(got) != 0 {
		t.Errorf("empty input produced %d positions", len(got))
	}

	single := springPositions([]string{"R1"}, nil, 42, 50)
	if p := single["R1"]; p.X != 0 || p.Y != 0 {
		t.Errorf("single node at %+v, want origin", p)
	}
}

func TestCentroid(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   Point
	}{
		{"Empty", nil, Point{}},
		{"Single", []Point{{X: 2, Y: -4}}, Point{X: 2, Y: -4}},
		{"Pair", []Point{{X: 0, Y: 0}, {X: 2, Y: 4}}, Point{X: 1, Y: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Centroid(tt.points); got != tt.want {
				t.Errorf("Centroid = %+v, want %+v", got, tt.want)
			}
		})
	}
}
