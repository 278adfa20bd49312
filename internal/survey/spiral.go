package survey

import (
	"math"

	"github.com/geoplan-data/fold.report/internal/geom"
)

// arcTolerance is the absolute arc-length residual at which the Newton
// iteration for the spiral angle stops (5 cm).
const arcTolerance = 0.05

// SpiralSeed places points at a fixed arc-length interval along an
// Archimedean spiral r(θ) = c·θ with c = RadInc/2π, between the radii
// RadMin and RadMax. A negative Spacing mirrors the spiral along the
// y-axis (clockwise winding).
type SpiralSeed struct {
	RadMin        float64
	RadMax        float64
	RadInc        float64 // radius increase per full turn
	StartAngleDeg float64
	Spacing       float64
}

// arcLength returns the closed-form arc length of the spiral r = c·θ from
// the origin to angle theta:
//
//	s(θ) = 0.5·c·(θ·√(1+θ²) + ln(θ + √(1+θ²)))
func arcLength(theta, c float64) float64 {
	rt := math.Sqrt(1 + theta*theta)
	return 0.5 * c * (theta*rt + math.Log(theta+rt))
}

// arcDerivative returns ds/dθ of arcLength.
func arcDerivative(theta, c float64) float64 {
	rt := math.Sqrt(1 + theta*theta)
	return 0.5 * c * (rt + theta*theta/rt + (1+theta/rt)/(theta+rt))
}

// angleAt solves s(θ) = arc for θ by Newton iteration, starting from the
// estimate θ ≈ √(2s/c). At most four iterations are needed to get the
// residual below arcTolerance.
func angleAt(arc, c float64) float64 {
	theta := math.Sqrt(2 * arc / c)
	for iter := 0; iter < 4; iter++ {
		residual := arcLength(theta, c) - arc
		if residual < arcTolerance {
			break
		}
		theta -= residual / arcDerivative(theta, c)
	}
	return theta
}

// PointCount derives the point count from the usable arc length between
// RadMin and RadMax divided by the spacing.
func (s SpiralSeed) PointCount() int {
	if s.RadInc <= 0 {
		return 1
	}
	c := s.RadInc / (2 * math.Pi)
	sMin := arcLength(s.RadMin/c, c)
	sMax := arcLength(s.RadMax/c, c)
	n := int(math.Floor((sMax - sMin) / math.Abs(s.Spacing)))
	if n < 1 {
		return 1
	}
	return n
}

// PointList generates the spiral points around origin, walking the spiral
// in equal arc-length steps. All points lie at the origin's elevation.
func (s SpiralSeed) PointList(origin geom.Vec) []geom.Vec {
	n := s.PointCount()
	c := s.RadInc / (2 * math.Pi)
	phase := s.StartAngleDeg * math.Pi / 180
	sign := math.Copysign(1, s.Spacing)
	d := math.Abs(s.Spacing)

	sMin := arcLength(s.RadMin/c, c)

	points := make([]geom.Vec, 0, n)
	for i := 0; i < n; i++ {
		theta := angleAt(sMin+float64(i)*d, c)
		r := theta * c
		a := theta + phase*sign
		points = append(points, geom.Vec{
			X: origin.X + math.Cos(a)*r,
			Y: origin.Y + math.Sin(a*sign)*r,
			Z: origin.Z,
		})
	}
	return points
}

// WellSeed carries an externally computed well-trajectory point list,
// already expressed in the survey's local coordinate space. The engine
// never parses well files or resamples deviation surveys itself.
type WellSeed struct {
	Points []geom.Vec
}

// PointCount returns the number of supplied trajectory points.
func (w WellSeed) PointCount() int { return len(w.Points) }

// PointList returns a copy of the supplied points. Well points are
// absolute local positions; the seed origin does not shift them.
func (w WellSeed) PointList() []geom.Vec {
	out := make([]geom.Vec, len(w.Points))
	copy(out, w.Points)
	return out
}
