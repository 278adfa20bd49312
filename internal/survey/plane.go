package survey

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/geoplan-data/fold.report/internal/geom"
	"github.com/geoplan-data/fold.report/internal/units"
)

// Plane is a dipping plane reflector. Azimuth and dip (degrees) together
// with the anchor define the plane; the unit normal and the distance from
// the origin are always recomputed from them, never stored independently.
// Subsurface corresponds with negative z-values.
type Plane struct {
	Anchor     geom.Vec
	AzimuthDeg float64
	DipDeg     float64

	normal geom.Vec
	dist   float64
}

// NewPlane builds a plane from its anchor, azimuth and dip.
func NewPlane(anchor geom.Vec, azimuthDeg, dipDeg float64) Plane {
	p := Plane{Anchor: anchor, AzimuthDeg: azimuthDeg, DipDeg: dipDeg}
	p.computeNormal()
	return p
}

// PlaneFromAnchorAndNormal recovers dip and azimuth from a normal vector
// and builds the corresponding plane through anchor.
func PlaneFromAnchorAndNormal(anchor, normal geom.Vec) Plane {
	dip := round4(units.Degrees(math.Acos(r3.Dot(normal, geom.Vec{Z: 1}))))
	azimuth := round4(units.Degrees(math.Atan2(normal.Y, normal.X)) + 180)
	return NewPlane(anchor, azimuth, dip)
}

func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }

// computeNormal derives the unit normal and the plane's distance from the
// origin:
//
//	normal = (sin(-dip)·cos(az), sin(-dip)·sin(az), cos(-dip))
//	dist   = -dot(normal, anchor)
func (p *Plane) computeNormal() {
	dip := units.Radians(-p.DipDeg)
	az := units.Radians(p.AzimuthDeg)
	p.normal = geom.Vec{
		X: math.Sin(dip) * math.Cos(az),
		Y: math.Sin(dip) * math.Sin(az),
		Z: math.Cos(dip),
	}
	p.dist = -r3.Dot(p.normal, p.Anchor)
}

// Normal returns the derived unit normal.
func (p Plane) Normal() geom.Vec { return p.normal }

// Dist returns the derived distance from the coordinate origin.
func (p Plane) Dist() float64 { return p.dist }

// DistanceTo returns the signed distance from pt to the plane.
func (p Plane) DistanceTo(pt geom.Vec) float64 {
	return r3.Dot(p.normal, pt) + p.dist
}

// verticalEps bounds the z-component of a unit normal below which a plane
// counts as vertical. cos(90 deg) computed in radians lands around 6e-17,
// not exactly zero.
const verticalEps = 1e-9

// DepthAt returns the z-value of the plane below the surface point (x, y),
// or 0 for a vertical plane.
func (p Plane) DepthAt(x, y float64) float64 {
	if math.Abs(p.normal.Z) < verticalEps {
		return 0
	}
	return -(r3.Dot(p.normal, geom.Vec{X: x, Y: y}) + p.dist) / p.normal.Z
}

// Project returns the orthogonal projection of pt onto the plane.
func (p Plane) Project(pt geom.Vec) geom.Vec {
	return r3.Sub(pt, r3.Scale(p.DistanceTo(pt), p.normal))
}

// Mirror reflects pt to the other side of the plane.
func (p Plane) Mirror(pt geom.Vec) geom.Vec {
	return r3.Sub(pt, r3.Scale(2*p.DistanceTo(pt), p.normal))
}

// Intersect finds where the ray from the mirrored source to the receiver
// crosses the plane. It returns false when the ray runs parallel to the
// plane, when mirror and receiver sit on the same side, or when the angle
// of incidence falls outside the window.
func (p Plane) Intersect(srcMirror, rec geom.Vec, win units.AngleWindow) (geom.Vec, bool) {
	ray := r3.Sub(rec, srcMirror)
	denominator := r3.Dot(p.normal, ray)
	if denominator == 0 {
		return geom.Vec{}, false
	}

	u := (r3.Dot(p.normal, rec) + p.dist) / denominator
	if u < 0 || u > 1 {
		return geom.Vec{}, false
	}

	// A zero-length ray yields a NaN angle, which the window rejects.
	aoi := math.Acos(denominator / r3.Norm(ray))
	if !win.ContainsRad(aoi) {
		return geom.Vec{}, false
	}
	return r3.Sub(rec, r3.Scale(u, ray)), true
}

// IntersectAll is the batched form of Intersect for one mirrored source
// and many receivers. Inadmissible receivers are pruned from both output
// slices; when nothing survives both slices are nil.
func (p Plane) IntersectAll(srcMirror geom.Vec, recs []geom.Vec, win units.AngleWindow) (refl, kept []geom.Vec) {
	for _, rec := range recs {
		pt, ok := p.Intersect(srcMirror, rec, win)
		if !ok {
			continue
		}
		refl = append(refl, pt)
		kept = append(kept, rec)
	}
	return refl, kept
}
