package survey

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/geoplan-data/fold.report/internal/geom"
	"github.com/geoplan-data/fold.report/internal/units"
)

// Sphere is a buried sphere reflector. Subsurface corresponds with
// negative z-values.
type Sphere struct {
	Origin geom.Vec
	Radius float64
}

// DepthAt returns the z-value of the sphere's surface below the surface
// point (x, y), or +Inf when the point lies outside the sphere's footprint.
func (s Sphere) DepthAt(x, y float64) float64 {
	dx := x - s.Origin.X
	dy := y - s.Origin.Y
	l2 := dx*dx + dy*dy
	if l2 > s.Radius*s.Radius {
		return math.Inf(1)
	}
	return s.Origin.Z + math.Sqrt(s.Radius*s.Radius-l2)
}

// Reflect finds the reflection point for one source-receiver pair: the
// bisector of the two center rays, pushed out to the sphere's surface. It
// returns false when the angle of incidence falls outside the window; a
// degenerate pair (source or receiver at the sphere center, or coinciding
// with the reflection point) yields a NaN angle and is rejected the same
// way.
func (s Sphere) Reflect(src, rec geom.Vec, win units.AngleWindow) (geom.Vec, bool) {
	ray1 := r3.Unit(r3.Sub(rec, s.Origin))
	ray2 := r3.Unit(r3.Sub(src, s.Origin))
	// Unit-length bisector, so the reflection point sits exactly on the
	// sphere. Antipodal center rays cancel to zero and get rejected below.
	ray3 := r3.Unit(r3.Scale(0.5, r3.Add(ray1, ray2)))

	refl := r3.Add(s.Origin, r3.Scale(s.Radius, ray3))

	ray4 := r3.Unit(r3.Sub(src, refl))
	aoi := math.Acos(r3.Dot(ray3, ray4))
	if !win.ContainsRad(aoi) {
		return geom.Vec{}, false
	}
	return refl, true
}

// ReflectAll is the batched form of Reflect for one source and many
// receivers, with identical per-element semantics. Inadmissible receivers
// are pruned from both output slices.
func (s Sphere) ReflectAll(src geom.Vec, recs []geom.Vec, win units.AngleWindow) (refl, kept []geom.Vec) {
	for _, rec := range recs {
		pt, ok := s.Reflect(src, rec, win)
		if !ok {
			continue
		}
		refl = append(refl, pt)
		kept = append(kept, rec)
	}
	return refl, kept
}
