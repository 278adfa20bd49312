package survey

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/geoplan-data/fold.report/internal/geom"
)

func TestGridSeedPointCount(t *testing.T) {
	tests := []struct {
		name string
		grow [3]GrowStep
		want int
	}{
		{"all identity", [3]GrowStep{}, 1},
		{"single level", [3]GrowStep{{Steps: 5, Increment: geom.Vec{X: 50}}}, 5},
		{"two levels", [3]GrowStep{
			{Steps: 4, Increment: geom.Vec{X: 50}},
			{Steps: 3, Increment: geom.Vec{Y: 200}},
		}, 12},
		{"three levels", [3]GrowStep{
			{Steps: 2, Increment: geom.Vec{X: 50}},
			{Steps: 3, Increment: geom.Vec{Y: 200}},
			{Steps: 5, Increment: geom.Vec{Z: -10}},
		}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GridSeed{Grow: tt.grow}
			if got := g.PointCount(); got != tt.want {
				t.Errorf("PointCount() = %d, want %d", got, tt.want)
			}
			if got := len(g.PointList(geom.Vec{})); got != tt.want {
				t.Errorf("len(PointList()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGridSeedLoopAndArrayFormsAgree(t *testing.T) {
	g := GridSeed{Grow: [3]GrowStep{
		{Steps: 3, Increment: geom.Vec{X: 50, Y: 1}},
		{Steps: 4, Increment: geom.Vec{Y: 200}},
		{Steps: 2, Increment: geom.Vec{X: -25, Z: 5}},
	}}
	origin := geom.Vec{X: 1000, Y: -500, Z: 12}

	loop := g.PointList(origin)
	array := g.PointArray(origin)
	if diff := cmp.Diff(loop, array); diff != "" {
		t.Errorf("PointList and PointArray disagree (-loop +array):\n%s", diff)
	}
}

func TestGridSeedSalvoLine(t *testing.T) {
	g := GridSeed{Grow: [3]GrowStep{
		{Steps: 1},
		{Steps: 1},
		{Steps: 5, Increment: geom.Vec{X: 50}},
	}}
	start, end := g.SalvoLine(geom.Vec{X: 100})
	if start.X != 100 || end.X != 300 {
		t.Errorf("SalvoLine = %v..%v, want x 100..300", start, end)
	}
}

func TestCircleSeedPointCount(t *testing.T) {
	tests := []struct {
		name string
		seed CircleSeed
		want int
	}{
		{"unit spacing", CircleSeed{Radius: 100, Spacing: 25}, 25},
		{"negative spacing", CircleSeed{Radius: 100, Spacing: -25}, 25},
		{"zero spacing", CircleSeed{Radius: 100, Spacing: 0}, 1},
		{"spacing larger than circumference", CircleSeed{Radius: 10, Spacing: 100}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seed.PointCount(); got != tt.want {
				t.Errorf("PointCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCircleSeedPointsOnCircle(t *testing.T) {
	seed := CircleSeed{Radius: 300, StartAngleDeg: 45, Spacing: 50}
	origin := geom.Vec{X: 10, Y: -20, Z: 5}

	for i, p := range seed.PointList(origin) {
		r := math.Hypot(p.X-origin.X, p.Y-origin.Y)
		if math.Abs(r-seed.Radius) > 1e-9 {
			t.Errorf("point %d at radius %v, want %v", i, r, seed.Radius)
		}
		if p.Z != origin.Z {
			t.Errorf("point %d elevation %v, want %v", i, p.Z, origin.Z)
		}
	}
}

// The expected count is pinned against the closed-form arc length of the
// Archimedean spiral: s(θ) = 0.5·c·(θ·√(1+θ²) + ln(θ + √(1+θ²))) with
// c = radInc/2π, evaluated between radMin and radMax and divided by the
// spacing.
func TestSpiralSeedPointCountRegression(t *testing.T) {
	seed := SpiralSeed{RadMin: 200, RadMax: 1000, RadInc: 200, Spacing: 50}
	if got := seed.PointCount(); got != 302 {
		t.Errorf("PointCount() = %d, want 302", got)
	}
}

func TestSpiralSeedRadiiWithinBand(t *testing.T) {
	seed := SpiralSeed{RadMin: 200, RadMax: 1000, RadInc: 200, Spacing: 50}
	points := seed.PointList(geom.Vec{})

	if len(points) != seed.PointCount() {
		t.Fatalf("generated %d points, want %d", len(points), seed.PointCount())
	}
	for i, p := range points {
		r := math.Hypot(p.X, p.Y)
		// The Newton solve tolerates a small arc residual, so allow a
		// matching slack on the radius band.
		if r < seed.RadMin-1 || r > seed.RadMax+1 {
			t.Errorf("point %d at radius %v outside [%v, %v]", i, r, seed.RadMin, seed.RadMax)
		}
	}
}

func TestSpiralSeedArcSpacing(t *testing.T) {
	seed := SpiralSeed{RadMin: 200, RadMax: 1000, RadInc: 200, Spacing: 50}
	points := seed.PointList(geom.Vec{})

	// Chord length between consecutive points approximates the arc spacing
	// from below; at these radii the two differ by well under a meter.
	for i := 1; i < len(points); i++ {
		chord := math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
		if math.Abs(chord-50) > 1 {
			t.Errorf("chord %d = %v, want about 50", i, chord)
		}
	}
}

func TestSpiralSeedMirroredBySpacingSign(t *testing.T) {
	fwd := SpiralSeed{RadMin: 200, RadMax: 400, RadInc: 200, Spacing: 50}
	rev := fwd
	rev.Spacing = -fwd.Spacing

	pf := fwd.PointList(geom.Vec{})
	pr := rev.PointList(geom.Vec{})
	if len(pf) != len(pr) {
		t.Fatalf("mirrored spiral has %d points, want %d", len(pr), len(pf))
	}
	for i := range pf {
		if math.Abs(pf[i].X-pr[i].X) > 1e-9 || math.Abs(pf[i].Y+pr[i].Y) > 1e-9 {
			t.Errorf("point %d not mirrored: %v vs %v", i, pf[i], pr[i])
		}
	}
}

func TestWellSeedCopiesPoints(t *testing.T) {
	trajectory := []geom.Vec{{X: 1, Z: -100}, {X: 2, Z: -250}, {X: 3, Z: -400}}
	seed := WellSeed{Points: trajectory}

	got := seed.PointList()
	if diff := cmp.Diff(trajectory, got); diff != "" {
		t.Fatalf("PointList mismatch:\n%s", diff)
	}
	got[0].X = 999
	if trajectory[0].X != 1 {
		t.Error("PointList must return a copy, not the backing slice")
	}
}

func TestSeedPrepareRejectsUnknownKind(t *testing.T) {
	seed := &Seed{Name: "bad", Kind: SeedKind("hexagon")}
	if err := seed.Prepare(); err == nil {
		t.Fatal("expected error for unknown seed kind")
	}
}

func TestSeedBoundingRect(t *testing.T) {
	seed := &Seed{
		Name: "line", Kind: SeedGrid,
		Grid: GridSeed{Grow: [3]GrowStep{{Steps: 5, Increment: geom.Vec{X: 50}}}},
	}
	if err := seed.Prepare(); err != nil {
		t.Fatal(err)
	}
	r := seed.BoundingRect()
	if r.XMin != 0 || r.XMax != 200 {
		t.Errorf("BoundingRect x span = %v..%v, want 0..200", r.XMin, r.XMax)
	}
	if r.Height() < geom.MinExtent {
		t.Errorf("degenerate height not padded: %+v", r)
	}
}
