package survey

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/geoplan-data/fold.report/internal/geom"
)

// BinFromTemplates runs the binning pass directly over the survey's
// template expansion, without materializing geometry record arrays. Shots
// are enumerated exactly as AssembleGeometry does; cancellation and
// progress are handled at shot granularity.
func (s *Survey) BinFromTemplates(ctx context.Context, progress func(int)) (*BinGrid, error) {
	if s.shotPoints <= 0 {
		return nil, fmt.Errorf("%w: survey must be prepared before binning", ErrConfig)
	}
	grid := NewBinGrid(s.Area, s.Grid.BinSizeX, s.Grid.BinSizeY, s.Grid.MaxFold, s.Binning.FullAnalysis)

	shot, pct := 0, 0
	for _, block := range s.Blocks {
		for _, template := range block.Templates {
			err := forEachRollOffset(template.Rolls, func(offset geom.Vec) error {
				for _, srcSeed := range template.Seeds {
					if !srcSeed.Source {
						continue
					}
					for _, src := range translateClip(srcSeed.points, offset, block.SrcBorder) {
						if ctx.Err() != nil {
							return ErrCanceled
						}
						shot++
						if progress != nil {
							if p := 100 * shot / s.shotPoints; p > pct {
								pct = p
								progress(p)
							}
						}
						for _, recSeed := range template.Seeds {
							if recSeed.Source {
								continue
							}
							recs := translateClip(recSeed.points, offset, block.RecBorder)
							refl, kept := s.reflectAll(src, recs)
							s.binTraces(grid, src, refl, kept)
						}
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return grid, nil
}

// BinFromGeometry runs the binning pass over assembled or imported record
// arrays, re-deriving each shot's receivers from its relation records'
// line/point ranges. Cancellation and progress are handled at relation
// granularity. Imported records that carry only global coordinates get
// their local coordinates backfilled through the inverse placement
// transform.
func (s *Survey) BinFromGeometry(ctx context.Context, g *Geometry, progress func(int)) (*BinGrid, error) {
	if s.binXform == (geom.Affine{}) {
		if err := s.computeTransforms(); err != nil {
			return nil, err
		}
	}
	grid := NewBinGrid(s.Area, s.Grid.BinSizeX, s.Grid.BinSizeY, s.Grid.MaxFold, s.Binning.FullAnalysis)
	if len(g.Rel) == 0 {
		return grid, nil
	}

	src, err := s.localized(g.Src)
	if err != nil {
		return nil, err
	}
	rec, err := s.localized(g.Rec)
	if err != nil {
		return nil, err
	}

	pct := 0
	for i, rel := range g.Rel {
		if ctx.Err() != nil {
			return nil, ErrCanceled
		}
		if progress != nil {
			if p := 100 * (i + 1) / len(g.Rel); p > pct {
				pct = p
				progress(p)
			}
		}

		si := sort.Search(len(src), func(j int) bool {
			return !pointLess(src[j], PointRecord{Index: rel.SrcIndex, Line: rel.SrcLine, Point: rel.SrcPoint})
		})
		if si >= len(src) ||
			src[si].Index != rel.SrcIndex || src[si].Line != rel.SrcLine || src[si].Point != rel.SrcPoint {
			continue
		}
		srcPt := geom.Vec{X: src[si].LocX, Y: src[si].LocY, Z: src[si].Elev}

		lo, hi := receiverRange(rec, rel.RecIndex, rel.RecLine, rel.RecMin, rel.RecMax)
		if lo >= hi {
			continue
		}
		recs := make([]geom.Vec, 0, hi-lo)
		for _, rr := range rec[lo:hi] {
			recs = append(recs, geom.Vec{X: rr.LocX, Y: rr.LocY, Z: rr.Elev})
		}

		refl, kept := s.reflectAll(srcPt, recs)
		s.binTraces(grid, srcPt, refl, kept)
	}
	return grid, nil
}

// localized returns a sorted copy of records with local coordinates
// guaranteed to be populated. Records imported from elsewhere often carry
// only global east/north; those are mapped back through the inverse
// placement transform.
func (s *Survey) localized(records []PointRecord) ([]PointRecord, error) {
	out := make([]PointRecord, len(records))
	copy(out, records)

	needsBackfill := len(out) > 0
	for _, r := range out {
		if r.LocX != 0 || r.LocY != 0 {
			needsBackfill = false
			break
		}
	}
	if needsBackfill {
		toLocal, ok := s.globalXform.Inverse()
		if !ok {
			return nil, fmt.Errorf("%w: global placement transform is singular", ErrConfig)
		}
		for i := range out {
			out[i].LocX, out[i].LocY = toLocal.Apply(out[i].East, out[i].North)
		}
	}

	sortPoints(out)
	return out, nil
}

// binTraces applies the output-area, rectangular-offset and radial-offset
// windows to each reflection point and accumulates the survivors. refl and
// recs are the index-aligned outputs of reflectAll.
func (s *Survey) binTraces(grid *BinGrid, src geom.Vec, refl, recs []geom.Vec) {
	for i, pt := range refl {
		if !s.Area.Contains(pt.X, pt.Y) {
			continue
		}
		rec := recs[i]
		dx, dy := rec.X-src.X, rec.Y-src.Y
		if !s.Offset.Window.Contains(dx, dy) {
			continue
		}
		r := math.Hypot(dx, dy)
		if s.Offset.RadialMax > 0 && (r < s.Offset.RadialMin || r > s.Offset.RadialMax) {
			continue
		}

		// int() truncates toward zero, so negative fractional cells must
		// be rejected before conversion.
		bx, by := s.binXform.Apply(pt.X, pt.Y)
		if bx < 0 || by < 0 {
			continue
		}

		var det TraceDetail
		if grid.Detail != nil {
			stkX, stkY := s.stakeXform.Apply(pt.X, pt.Y)
			det = TraceDetail{
				StakeX: stkX, StakeY: stkY,
				SrcX: src.X, SrcY: src.Y,
				RecX: rec.X, RecY: rec.Y,
				CmpX: pt.X, CmpY: pt.Y,
			}
		}
		grid.Accumulate(int(bx), int(by), r, det)
	}
}
