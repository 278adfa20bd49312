package geom

import "math"

// Affine is a 2D affine transform in parametric form:
//
//	x' = A0 + A1·x + A2·y
//	y' = B0 + B1·x + B2·y
//
// It maps between the survey's coordinate frames: local engineering
// coordinates, global (projected) coordinates, stake/line labels, and bin
// grid cell indices.
type Affine struct {
	A0, A1, A2 float64
	B0, B1, B2 float64
}

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{A1: 1, B2: 1}
}

// Translation returns a transform that shifts by (tx, ty).
func Translation(tx, ty float64) Affine {
	return Affine{A0: tx, A1: 1, B0: ty, B2: 1}
}

// Rotation returns a counter-clockwise rotation by angle degrees.
func Rotation(deg float64) Affine {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Affine{A1: c, A2: -s, B1: s, B2: c}
}

// Scaling returns a transform that scales x by sx and y by sy.
func Scaling(sx, sy float64) Affine {
	return Affine{A1: sx, B2: sy}
}

// Then composes t with next so that applying the result equals applying t
// first, then next.
func (t Affine) Then(next Affine) Affine {
	return Affine{
		A0: next.A0 + next.A1*t.A0 + next.A2*t.B0,
		A1: next.A1*t.A1 + next.A2*t.B1,
		A2: next.A1*t.A2 + next.A2*t.B2,
		B0: next.B0 + next.B1*t.A0 + next.B2*t.B0,
		B1: next.B1*t.A1 + next.B2*t.B1,
		B2: next.B1*t.A2 + next.B2*t.B2,
	}
}

// Apply maps the point (x, y) through t.
func (t Affine) Apply(x, y float64) (float64, float64) {
	return t.A0 + t.A1*x + t.A2*y, t.B0 + t.B1*x + t.B2*y
}

// ApplyVec maps the x/y components of v through t, leaving z untouched.
func (t Affine) ApplyVec(v Vec) Vec {
	x, y := t.Apply(v.X, v.Y)
	return Vec{X: x, Y: y, Z: v.Z}
}

// Inverse returns the inverse transform. ok is false when t is singular.
func (t Affine) Inverse() (inv Affine, ok bool) {
	det := t.A1*t.B2 - t.A2*t.B1
	if det == 0 {
		return IdentityAffine(), false
	}
	inv.A1 = t.B2 / det
	inv.A2 = -t.A2 / det
	inv.B1 = -t.B1 / det
	inv.B2 = t.A1 / det
	inv.A0 = -(inv.A1*t.A0 + inv.A2*t.B0)
	inv.B0 = -(inv.B1*t.A0 + inv.B2*t.B0)
	return inv, true
}
