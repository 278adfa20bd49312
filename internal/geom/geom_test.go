package geom

import (
	"math"
	"testing"
)

func TestNullRectSemantics(t *testing.T) {
	var null Rect
	if !null.IsNull() {
		t.Fatal("zero-value rect should be null")
	}
	if !null.Contains(1e9, -1e9) {
		t.Error("null rect must contain every point")
	}

	r := NewRect(0, 0, 100, 50)
	if got := null.Intersect(r); got != r {
		t.Errorf("null.Intersect(r) = %+v, want %+v", got, r)
	}
	if got := r.Intersect(null); got != r {
		t.Errorf("r.Intersect(null) = %+v, want %+v", got, r)
	}
	if got := null.Union(r); got != r {
		t.Errorf("null.Union(r) = %+v, want %+v", got, r)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(-100, -100, 1100, 100)

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 500, 0, true},
		{"min corner", -100, -100, true},
		{"max corner", 1100, 100, true},
		{"outside x", 1101, 0, false},
		{"outside y", 0, 101, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestNewRectNormalizesCorners(t *testing.T) {
	r := NewRect(100, 50, 0, 0)
	if r.XMin != 0 || r.YMin != 0 || r.XMax != 100 || r.YMax != 50 {
		t.Errorf("corners not normalized: %+v", r)
	}
}

func TestRectUnionIntersect(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 20, 20)

	if got, want := a.Union(b), NewRect(0, 0, 20, 20); got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
	if got, want := a.Intersect(b), NewRect(5, 5, 10, 10); got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}
}

func TestBoundsOf(t *testing.T) {
	points := []Vec{{X: 3, Y: -2}, {X: -1, Y: 7}, {X: 0, Y: 0}}
	r := BoundsOf(points)
	if r.XMin != -1 || r.YMin != -2 || r.XMax != 3 || r.YMax != 7 {
		t.Errorf("BoundsOf = %+v", r)
	}
}

func TestPadDegenerate(t *testing.T) {
	r := NewRect(5, 5, 5, 10).PadDegenerate()
	if r.Width() < MinExtent {
		t.Errorf("degenerate width not padded: %+v", r)
	}
	if r.Height() != 5 {
		t.Errorf("non-degenerate height changed: %+v", r)
	}
}

func approxEq(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAffineComposition(t *testing.T) {
	// Scale, then rotate 90 degrees, then translate.
	xform := Scaling(2, 2).Then(Rotation(90)).Then(Translation(1000, 2000))

	x, y := xform.Apply(100, 0)
	if !approxEq(x, 1000) || !approxEq(y, 2200) {
		t.Errorf("Apply(100, 0) = (%v, %v), want (1000, 2200)", x, y)
	}
}

func TestAffineInverseRoundTrip(t *testing.T) {
	xform := Scaling(2, 3).Then(Rotation(37)).Then(Translation(-12, 45))
	inv, ok := xform.Inverse()
	if !ok {
		t.Fatal("transform should be invertible")
	}

	for _, p := range []Vec{{X: 0, Y: 0}, {X: 123.4, Y: -56.7}, {X: -1, Y: 1}} {
		fx, fy := xform.Apply(p.X, p.Y)
		bx, by := inv.Apply(fx, fy)
		if !approxEq(bx, p.X) || !approxEq(by, p.Y) {
			t.Errorf("round trip of (%v, %v) = (%v, %v)", p.X, p.Y, bx, by)
		}
	}
}

func TestAffineSingularInverse(t *testing.T) {
	if _, ok := Scaling(0, 1).Inverse(); ok {
		t.Error("singular transform should not invert")
	}
}

func TestApplyVecKeepsZ(t *testing.T) {
	v := Translation(10, 20).ApplyVec(Vec{X: 1, Y: 2, Z: -2000})
	if v.X != 11 || v.Y != 22 || v.Z != -2000 {
		t.Errorf("ApplyVec = %+v", v)
	}
}
