package layout

import "math"

// fanStep spreads unreferenced interfaces around their router starting at
// the positive x-axis, stepping by a fixed angle so ordering stays stable.
const fanStep = math.Pi / 3

// fanPoint returns the idx-th fan position at the given radial offset.
func fanPoint(anchor Point, offset float64, idx int) Point {
	angle := fanStep * float64(idx)
	return Point{
		X: anchor.X + math.Cos(angle)*offset,
		Y: anchor.Y + math.Sin(angle)*offset,
	}
}

func hypot(dx, dy float64) float64 { return math.Hypot(dx, dy) }

// Centroid returns the arithmetic mean of the given points. It is the
// anchoring rule for AS containers.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sum Point
	for _, p := range points {
		sum.X += p.X
		sum.Y += p.Y
	}
	n := float64(len(points))
	return Point{X: sum.X / n, Y: sum.Y / n}
}
