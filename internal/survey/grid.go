package survey

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/geoplan-data/fold.report/internal/geom"
)

// GridSeed generates the Cartesian product of its three grow levels:
// point (i, j, k) = origin + inc0·i + inc1·j + inc2·k.
type GridSeed struct {
	Rolling bool // rolling seeds follow the template's roll steps
	Grow    [3]GrowStep
}

// PointCount returns the number of generated points, the product of the
// three step counts.
func (g GridSeed) PointCount() int {
	n := 1
	for _, step := range g.Grow {
		n *= step.normalize().Steps
	}
	return n
}

// PointList generates the grid points with an explicit triple nested loop.
// Level 0 varies slowest, level 2 fastest; the enumeration order matters
// only for diagnostic salvo drawing, never for bin statistics.
func (g GridSeed) PointList(origin geom.Vec) []geom.Vec {
	g0 := g.Grow[0].normalize()
	g1 := g.Grow[1].normalize()
	g2 := g.Grow[2].normalize()

	points := make([]geom.Vec, 0, g0.Steps*g1.Steps*g2.Steps)
	for i := 0; i < g0.Steps; i++ {
		off0 := r3.Add(origin, r3.Scale(float64(i), g0.Increment))
		for j := 0; j < g1.Steps; j++ {
			off1 := r3.Add(off0, r3.Scale(float64(j), g1.Increment))
			for k := 0; k < g2.Steps; k++ {
				points = append(points, r3.Add(off1, r3.Scale(float64(k), g2.Increment)))
			}
		}
	}
	return points
}

// PointArray generates the same points as PointList as an outer product of
// three precomputed 1D offset sequences. The two forms produce identical
// values in identical order.
func (g GridSeed) PointArray(origin geom.Vec) []geom.Vec {
	g0 := g.Grow[0].normalize()
	g1 := g.Grow[1].normalize()
	g2 := g.Grow[2].normalize()

	lvl0 := make([]geom.Vec, g0.Steps)
	for i := range lvl0 {
		lvl0[i] = r3.Add(origin, r3.Scale(float64(i), g0.Increment))
	}
	lvl1 := make([]geom.Vec, g1.Steps)
	for j := range lvl1 {
		lvl1[j] = r3.Scale(float64(j), g1.Increment)
	}
	lvl2 := make([]geom.Vec, g2.Steps)
	for k := range lvl2 {
		lvl2[k] = r3.Scale(float64(k), g2.Increment)
	}

	points := make([]geom.Vec, 0, len(lvl0)*len(lvl1)*len(lvl2))
	for _, p0 := range lvl0 {
		for _, p1 := range lvl1 {
			p01 := r3.Add(p0, p1)
			for _, p2 := range lvl2 {
				points = append(points, r3.Add(p01, p2))
			}
		}
	}
	return points
}

// SalvoLine returns the start and end point of the last grow level, used
// for quick diagnostic drawing of a seed at low level of detail.
func (g GridSeed) SalvoLine(origin geom.Vec) (geom.Vec, geom.Vec) {
	last := g.Grow[2].normalize()
	length := r3.Scale(float64(last.Steps-1), last.Increment)
	if last.Steps <= 1 {
		length = geom.Vec{X: geom.MinExtent, Y: geom.MinExtent}
	}
	return origin, r3.Add(origin, length)
}
