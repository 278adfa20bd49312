// Package geom provides the small planar/spatial primitives shared by the
// survey engine: 3-vectors (gonum spatial/r3), axis-aligned rectangles with
// null semantics, and 2D affine transforms in the parametric form
// x' = A0 + A1·x + A2·y, y' = B0 + B1·x + B2·y (EPSG:9624).
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a 3-component vector in survey-local or global coordinates.
// The z-component holds elevation (negative below datum).
type Vec = r3.Vec

// MinExtent is the minimum width/height given to degenerate rectangles so
// union and intersection stay well defined.
const MinExtent = 1.0e-6

// Rect is an axis-aligned rectangle. The zero value is the null rectangle:
// it passes every containment test and acts as identity under intersection,
// which is how "unbounded" block borders are represented.
type Rect struct {
	XMin, YMin float64
	XMax, YMax float64
}

// NewRect returns a normalized rectangle spanning the two corner points.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		XMin: math.Min(x0, x1),
		YMin: math.Min(y0, y1),
		XMax: math.Max(x0, x1),
		YMax: math.Max(y0, y1),
	}
}

// IsNull reports whether r is the null (unbounded) rectangle.
func (r Rect) IsNull() bool {
	return r.XMin == 0 && r.YMin == 0 && r.XMax == 0 && r.YMax == 0
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.XMax - r.XMin }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.YMax - r.YMin }

// Contains reports whether (x, y) lies inside r, borders included.
// The null rectangle contains every point.
func (r Rect) Contains(x, y float64) bool {
	if r.IsNull() {
		return true
	}
	return x >= r.XMin && x <= r.XMax && y >= r.YMin && y <= r.YMax
}

// ContainsVec reports whether the (x, y) components of v lie inside r.
func (r Rect) ContainsVec(v Vec) bool { return r.Contains(v.X, v.Y) }

// Union returns the smallest rectangle covering both r and s. The null
// rectangle is absorbing on neither side: union with null returns the
// other operand.
func (r Rect) Union(s Rect) Rect {
	if r.IsNull() {
		return s
	}
	if s.IsNull() {
		return r
	}
	return Rect{
		XMin: math.Min(r.XMin, s.XMin),
		YMin: math.Min(r.YMin, s.YMin),
		XMax: math.Max(r.XMax, s.XMax),
		YMax: math.Max(r.YMax, s.YMax),
	}
}

// Intersect returns the overlap of r and s. The null rectangle acts as
// identity. A disjoint pair yields the null rectangle.
func (r Rect) Intersect(s Rect) Rect {
	if r.IsNull() {
		return s
	}
	if s.IsNull() {
		return r
	}
	out := Rect{
		XMin: math.Max(r.XMin, s.XMin),
		YMin: math.Max(r.YMin, s.YMin),
		XMax: math.Min(r.XMax, s.XMax),
		YMax: math.Min(r.YMax, s.YMax),
	}
	if out.XMin > out.XMax || out.YMin > out.YMax {
		return Rect{}
	}
	return out
}

// PadDegenerate widens zero-extent sides to MinExtent so the rectangle
// survives subsequent union/intersection arithmetic.
func (r Rect) PadDegenerate() Rect {
	if r.Width() == 0 {
		r.XMax = r.XMin + MinExtent
	}
	if r.Height() == 0 {
		r.YMax = r.YMin + MinExtent
	}
	return r
}

// BoundsOf returns the padded bounding rectangle of a point set.
func BoundsOf(points []Vec) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	out := Rect{
		XMin: points[0].X, YMin: points[0].Y,
		XMax: points[0].X, YMax: points[0].Y,
	}
	for _, p := range points[1:] {
		out.XMin = math.Min(out.XMin, p.X)
		out.YMin = math.Min(out.YMin, p.Y)
		out.XMax = math.Max(out.XMax, p.X)
		out.YMax = math.Max(out.YMax, p.Y)
	}
	return out.PadDegenerate()
}
