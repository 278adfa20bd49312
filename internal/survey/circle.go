package survey

import (
	"math"

	"github.com/geoplan-data/fold.report/internal/geom"
)

// CircleSeed places points at a fixed arc-length interval along a circle.
// A negative Spacing reverses the winding direction.
type CircleSeed struct {
	Radius        float64
	StartAngleDeg float64
	Spacing       float64 // point interval along the circle [m]
}

// PointCount returns the number of points that fit on the circle:
// floor(2πr / |spacing|), at least 1.
func (c CircleSeed) PointCount() int {
	s := math.Abs(c.Spacing)
	if s == 0 {
		return 1
	}
	n := int(math.Floor(2 * math.Pi * c.Radius / s))
	if n < 1 {
		return 1
	}
	return n
}

// PointList generates the circle points around origin. All points lie at
// the origin's elevation.
func (c CircleSeed) PointList(origin geom.Vec) []geom.Vec {
	n := c.PointCount()
	phase := c.StartAngleDeg * math.Pi / 180
	q := c.Spacing / c.Radius // signed angular step

	points := make([]geom.Vec, 0, n)
	for i := 0; i < n; i++ {
		a := float64(i)*q + phase
		points = append(points, geom.Vec{
			X: origin.X + math.Cos(a)*c.Radius,
			Y: origin.Y + math.Sin(a)*c.Radius,
			Z: origin.Z,
		})
	}
	return points
}
