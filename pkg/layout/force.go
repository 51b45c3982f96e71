package layout

import (
	"math"
	"math/rand/v2"
)

const (
	// initialTemperature caps per-iteration node displacement; it decays
	// linearly to zero over the run.
	initialTemperature = 0.1

	// minSeparation avoids division blow-ups for coincident nodes.
	minSeparation = 1e-9
)

// springPositions computes a force-directed embedding of the router graph.
// Nodes are processed in slice order and the PRNG is seeded, so the result is
// a pure function of (ids, edges, seed, iterations). Edge weights are uniform:
// the display weight on route edges is a CIDR label, not a layout force.
//
// Coordinates are scaled into [-1, 1] on both axes, matching the coordinate
// frame the renderer's hit tests assume.
func springPositions(ids []string, edges [][2]string, seed uint64, iterations int) map[string]Point {
	pos := make(map[string]Point, len(ids))
	if len(ids) == 0 {
		return pos
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for _, id := range ids {
		pos[id] = Point{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
	}
	if len(ids) == 1 {
		pos[ids[0]] = Point{}
		return pos
	}

	// Optimal pairwise distance for n nodes in a unit area.
	k := math.Sqrt(1.0 / float64(len(ids)))

	temp := initialTemperature
	cool := temp / float64(iterations+1)

	disp := make(map[string]Point, len(ids))
	for iter := 0; iter < iterations; iter++ {
		for _, id := range ids {
			disp[id] = Point{}
		}

		// Repulsion between every node pair.
		for i, a := range ids {
			for _, b := range ids[i+1:] {
				dx := pos[a].X - pos[b].X
				dy := pos[a].Y - pos[b].Y
				dist := math.Hypot(dx, dy)
				if dist < minSeparation {
					dist = minSeparation
				}
				f := k * k / dist
				ux, uy := dx/dist, dy/dist
				disp[a] = Point{X: disp[a].X + ux*f, Y: disp[a].Y + uy*f}
				disp[b] = Point{X: disp[b].X - ux*f, Y: disp[b].Y - uy*f}
			}
		}

		// Attraction along edges, uniform weight.
		for _, e := range edges {
			dx := pos[e[0]].X - pos[e[1]].X
			dy := pos[e[0]].Y - pos[e[1]].Y
			dist := math.Hypot(dx, dy)
			if dist < minSeparation {
				dist = minSeparation
			}
			f := dist * dist / k
			ux, uy := dx/dist, dy/dist
			disp[e[0]] = Point{X: disp[e[0]].X - ux*f, Y: disp[e[0]].Y - uy*f}
			disp[e[1]] = Point{X: disp[e[1]].X + ux*f, Y: disp[e[1]].Y + uy*f}
		}

		// Apply displacements, capped by the current temperature.
		for _, id := range ids {
			d := disp[id]
			length := math.Hypot(d.X, d.Y)
			if length < minSeparation {
				continue
			}
			step := math.Min(length, temp)
			pos[id] = Point{
				X: pos[id].X + d.X/length*step,
				Y: pos[id].Y + d.Y/length*step,
			}
		}
		temp -= cool
	}

	rescale(pos, ids)
	return pos
}

// rescale fits positions into [-1, 1] around their centroid.
func rescale(pos map[string]Point, ids []string) {
	var cx, cy float64
	for _, id := range ids {
		cx += pos[id].X
		cy += pos[id].Y
	}
	cx /= float64(len(ids))
	cy /= float64(len(ids))

	var maxAbs float64
	for _, id := range ids {
		p := Point{X: pos[id].X - cx, Y: pos[id].Y - cy}
		pos[id] = p
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	if maxAbs == 0 {
		return
	}
	for _, id := range ids {
		pos[id] = Point{X: pos[id].X / maxAbs, Y: pos[id].Y / maxAbs}
	}
}
