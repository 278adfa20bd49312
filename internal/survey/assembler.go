package survey

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/geoplan-data/fold.report/internal/geom"
)

const (
	// initialRelationCap seeds the relation array; it grows on demand.
	initialRelationCap = 1000
	// compactStride is how many receiver records may accumulate between
	// dedup compactions. Roll-along revisits the same stations constantly,
	// so compaction keeps the receiver array bounded by the number of
	// distinct stations rather than the number of visits.
	compactStride = 65536
)

// assembly is the explicit accumulation state of one geometry pass. All
// counters that the expansion threads through nested roll/grow loops live
// here, never in package or survey state.
type assembly struct {
	ctx    context.Context
	survey *Survey
	out    *Geometry

	shot        int // 1-based shot sequence number
	total       int
	progressPct int
	progress    func(int)

	lastRecLine int32
	curRel      int
	nextCompact int
}

// AssembleGeometry expands the survey's blocks, templates and roll steps
// into deduplicated, canonically sorted source/receiver/relation arrays.
// Cancellation via ctx returns ErrCanceled and discards all partial output.
// The progress callback, when non-nil, receives floor(100·shot/total) and
// is only invoked when the percentage changes.
func (s *Survey) AssembleGeometry(ctx context.Context, progress func(int)) (*Geometry, error) {
	if s.shotPoints <= 0 {
		return nil, fmt.Errorf("%w: survey must be prepared before assembly", ErrConfig)
	}

	a := &assembly{
		ctx:    ctx,
		survey: s,
		out: &Geometry{
			Src: make([]PointRecord, 0, s.shotPoints),
			Rec: make([]PointRecord, 0, min(100*s.shotPoints, compactStride)),
			Rel: make([]RelationRecord, 0, initialRelationCap),
		},
		total:       s.shotPoints,
		progress:    progress,
		curRel:      -1,
		nextCompact: compactStride,
	}

	for blockIndex, block := range s.Blocks {
		for _, template := range block.Templates {
			err := forEachRollOffset(template.Rolls, func(offset geom.Vec) error {
				return a.assembleTemplate(blockIndex, block, template, offset)
			})
			if err != nil {
				return nil, err
			}
		}
	}

	a.out.Rec = dedupPoints(a.out.Rec)
	a.out.Rel = dedupRelations(a.out.Rel)
	sortPoints(a.out.Src)
	return a.out, nil
}

// forEachRollOffset walks the template's three roll levels and invokes fn
// with each placement offset. Level 0 varies slowest.
func forEachRollOffset(rolls [3]GrowStep, fn func(offset geom.Vec) error) error {
	for i := 0; i < rolls[0].Steps; i++ {
		off0 := r3.Scale(float64(i), rolls[0].Increment)
		for j := 0; j < rolls[1].Steps; j++ {
			off1 := r3.Add(off0, r3.Scale(float64(j), rolls[1].Increment))
			for k := 0; k < rolls[2].Steps; k++ {
				if err := fn(r3.Add(off1, r3.Scale(float64(k), rolls[2].Increment))); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// translateClip shifts the seed's local points by the template offset and
// drops points outside the border. A null border passes everything.
func translateClip(points []geom.Vec, offset geom.Vec, border geom.Rect) []geom.Vec {
	out := make([]geom.Vec, 0, len(points))
	for _, p := range points {
		p = r3.Add(p, offset)
		if border.ContainsVec(p) {
			out = append(out, p)
		}
	}
	return out
}

func (a *assembly) assembleTemplate(blockIndex int, block *Block, t *Template, offset geom.Vec) error {
	index := int32(blockIndex%10 + 1)

	for _, srcSeed := range t.Seeds {
		if !srcSeed.Source {
			continue
		}
		srcPoints := translateClip(srcSeed.points, offset, block.SrcBorder)
		for _, src := range srcPoints {
			if a.ctx.Err() != nil {
				return ErrCanceled
			}
			a.shot++
			a.lastRecLine = -9999 // a new shot always opens a new relation record
			a.report()

			stkX, stkY := a.survey.stakeXform.Apply(src.X, src.Y)
			glbX, glbY := a.survey.globalXform.Apply(src.X, src.Y)
			a.out.Src = append(a.out.Src, PointRecord{
				Line:  int32(stkY),
				Point: int32(stkX),
				Index: index,
				East:  glbX,
				North: glbY,
				Elev:  src.Z,
				LocX:  src.X,
				LocY:  src.Y,
				Valid: true,
			})
			srcStkX, srcStkY := int32(stkX), int32(stkY)

			for _, recSeed := range t.Seeds {
				if recSeed.Source {
					continue
				}
				recPoints := translateClip(recSeed.points, offset, block.RecBorder)
				for _, rec := range recPoints {
					a.appendReceiver(index, srcStkX, srcStkY, rec)
				}
			}
		}
	}
	return nil
}

func (a *assembly) appendReceiver(index, srcStkX, srcStkY int32, rec geom.Vec) {
	stkX, stkY := a.survey.stakeXform.Apply(rec.X, rec.Y)
	glbX, glbY := a.survey.globalXform.Apply(rec.X, rec.Y)
	recLine, recPoint := int32(stkY), int32(stkX)

	a.out.Rec = append(a.out.Rec, PointRecord{
		Line:  recLine,
		Point: recPoint,
		Index: index,
		East:  glbX,
		North: glbY,
		Elev:  rec.Z,
		LocX:  rec.X,
		LocY:  rec.Y,
		Valid: true,
	})
	if len(a.out.Rec) >= a.nextCompact {
		a.out.Rec = dedupPoints(a.out.Rec)
		a.nextCompact = len(a.out.Rec) + compactStride
	}

	if recLine != a.lastRecLine {
		a.lastRecLine = recLine
		a.out.Rel = append(a.out.Rel, RelationRecord{
			SrcLine:  srcStkY,
			SrcPoint: srcStkX,
			SrcIndex: index,
			RecLine:  recLine,
			RecMin:   recPoint,
			RecMax:   recPoint,
			RecIndex: index,
			ShotSeq:  int32(a.shot),
			Valid:    true,
		})
		a.curRel = len(a.out.Rel) - 1
		return
	}

	rel := &a.out.Rel[a.curRel]
	if recPoint < rel.RecMin {
		rel.RecMin = recPoint
	}
	if recPoint > rel.RecMax {
		rel.RecMax = recPoint
	}
}

func (a *assembly) report() {
	if a.progress == nil {
		return
	}
	pct := 100 * a.shot / a.total
	if pct > a.progressPct {
		a.progressPct = pct
		a.progress(pct)
	}
}

func sortPoints(records []PointRecord) {
	// Sources keep their assembly order within equal stake labels.
	sort.SliceStable(records, func(i, j int) bool { return pointLess(records[i], records[j]) })
}
