package survey

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/geoplan-data/fold.report/internal/geom"
)

// computeTransforms derives the coordinate transforms from the grid
// parameters and localizes the global reflectors. Local coordinates are
// the engineering frame all seed points live in; global coordinates come
// from the opaque affine placement (translate, rotate, scale).
func (s *Survey) computeTransforms() error {
	g := s.Grid
	sx, sy := g.ScaleX, g.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}

	// local -> global: scale, then rotate, then translate.
	s.globalXform = geom.Scaling(sx, sy).
		Then(geom.Rotation(g.Angle)).
		Then(geom.Translation(g.OrigX, g.OrigY))

	// local -> (stake, line): invert the stake grid's forward mapping
	// world = (stake - orig) * interval - shift. The shift is usually half
	// a bin size, centering integer stake numbers on bin centers.
	ds, dl := g.StakeSizeX, g.StakeSizeY
	if ds == 0 {
		ds = g.BinSizeX
	}
	if dl == 0 {
		dl = g.BinSizeY
	}
	stakeFwd := geom.Translation(-g.StakeOrigX, -g.StakeOrigY).
		Then(geom.Scaling(ds, dl)).
		Then(geom.Translation(-g.ShiftX, -g.ShiftY))
	stake, ok := stakeFwd.Inverse()
	if !ok {
		return fmt.Errorf("%w: stake intervals must be non-zero", ErrConfig)
	}
	s.stakeXform = stake

	// local -> fractional bin cell over the output area.
	binFwd := geom.Scaling(g.BinSizeX, g.BinSizeY).Then(geom.Translation(s.Area.XMin, s.Area.YMin))
	bin, ok := binFwd.Inverse()
	if !ok {
		return fmt.Errorf("%w: bin size must be non-zero", ErrConfig)
	}
	s.binXform = bin

	toLocal, ok := s.globalXform.Inverse()
	if !ok {
		return fmt.Errorf("%w: global placement transform is singular", ErrConfig)
	}

	s.localPlane = localizePlane(s.GlobalPlane, toLocal)
	s.localSphere = Sphere{
		Origin: geom.Vec{
			X: 0, Y: 0,
			Z: s.GlobalSphere.Origin.Z * sx,
		},
		Radius: s.GlobalSphere.Radius * sx,
	}
	o := toLocal.ApplyVec(s.GlobalSphere.Origin)
	s.localSphere.Origin.X = o.X
	s.localSphere.Origin.Y = o.Y
	return nil
}

// localizePlane rebuilds a plane in local coordinates from three
// transformed points on the global plane. Transforming the normal directly
// breaks down under anisotropic scaling, so the normal is re-derived from
// the transformed triangle instead.
func localizePlane(global Plane, toLocal geom.Affine) Plane {
	o0 := global.Anchor
	anchor := toLocal.ApplyVec(o0)

	p0 := r3.Add(o0, geom.Vec{X: 1000})
	p1 := toLocal.ApplyVec(geom.Vec{X: p0.X, Y: p0.Y})
	p1.Z = global.DepthAt(p0.X, p0.Y)

	q0 := r3.Add(o0, geom.Vec{Y: 1000})
	q1 := toLocal.ApplyVec(geom.Vec{X: q0.X, Y: q0.Y})
	q1.Z = global.DepthAt(q0.X, q0.Y)

	normal := r3.Unit(r3.Cross(r3.Sub(p1, anchor), r3.Sub(q1, anchor)))
	return PlaneFromAnchorAndNormal(anchor, normal)
}
