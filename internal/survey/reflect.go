package survey

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/geoplan-data/fold.report/internal/geom"
)

// reflectAll maps one source and its candidate receivers to subsurface
// reflection points per the configured binning method. Inadmissible
// receivers are pruned from both returned slices, which stay index-aligned.
// The cmp midpoint is always admissible; plane and sphere apply the
// reflection angle window.
func (s *Survey) reflectAll(src geom.Vec, recs []geom.Vec) (refl, kept []geom.Vec) {
	switch s.Binning.Method {
	case MethodPlane:
		mirror := s.localPlane.Mirror(src)
		return s.localPlane.IntersectAll(mirror, recs, s.Binning.Reflection)
	case MethodSphere:
		return s.localSphere.ReflectAll(src, recs, s.Binning.Reflection)
	default:
		refl = make([]geom.Vec, len(recs))
		for i, rec := range recs {
			refl[i] = r3.Scale(0.5, r3.Add(src, rec))
		}
		return refl, recs
	}
}
