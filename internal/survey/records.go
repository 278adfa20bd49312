package survey

import "sort"

// PointRecord is one labelled source or receiver position. Line/Point are
// the stake-grid labels, Index identifies the originating block, East/North
// are global coordinates and LocX/LocY/Elev the local position.
type PointRecord struct {
	Line  int32
	Point int32
	Index int32
	East  float64
	North float64
	Elev  float64
	LocX  float64
	LocY  float64
	Valid bool
}

// RelationRecord links one source to the contiguous range of receiver
// points live on one receiver line for that source.
type RelationRecord struct {
	SrcLine  int32
	SrcPoint int32
	SrcIndex int32
	RecLine  int32
	RecMin   int32
	RecMax   int32
	RecIndex int32
	ShotSeq  int32 // 1-based shot sequence number
	Valid    bool
}

// Geometry is the assembled survey geometry: deduplicated, canonically
// sorted source, receiver and relation record arrays. It is owned by the
// assembling pass until that pass completes.
type Geometry struct {
	Src []PointRecord
	Rec []PointRecord
	Rel []RelationRecord
}

func pointLess(a, b PointRecord) bool {
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Point < b.Point
}

func relationLess(a, b RelationRecord) bool {
	switch {
	case a.SrcIndex != b.SrcIndex:
		return a.SrcIndex < b.SrcIndex
	case a.SrcLine != b.SrcLine:
		return a.SrcLine < b.SrcLine
	case a.SrcPoint != b.SrcPoint:
		return a.SrcPoint < b.SrcPoint
	case a.RecIndex != b.RecIndex:
		return a.RecIndex < b.RecIndex
	case a.RecLine != b.RecLine:
		return a.RecLine < b.RecLine
	case a.RecMin != b.RecMin:
		return a.RecMin < b.RecMin
	default:
		return a.RecMax < b.RecMax
	}
}

// dedupPoints sorts records canonically by (index, line, point) and removes
// duplicates of that key, keeping the first occurrence. Invalid records are
// dropped. The pass is idempotent: a second run removes nothing.
func dedupPoints(records []PointRecord) []PointRecord {
	kept := records[:0]
	for _, r := range records {
		if r.Valid {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return pointLess(kept[i], kept[j]) })

	out := kept[:0]
	for i, r := range kept {
		if i > 0 {
			prev := out[len(out)-1]
			if r.Index == prev.Index && r.Line == prev.Line && r.Point == prev.Point {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// dedupRelations sorts relation records canonically and removes exact
// duplicates of the full record tuple. Invalid records are dropped.
func dedupRelations(records []RelationRecord) []RelationRecord {
	kept := records[:0]
	for _, r := range records {
		if r.Valid {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return relationLess(kept[i], kept[j]) })

	out := kept[:0]
	for i, r := range kept {
		if i > 0 {
			prev := out[len(out)-1]
			if r.SrcIndex == prev.SrcIndex && r.SrcLine == prev.SrcLine && r.SrcPoint == prev.SrcPoint &&
				r.RecIndex == prev.RecIndex && r.RecLine == prev.RecLine &&
				r.RecMin == prev.RecMin && r.RecMax == prev.RecMax {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// receiverRange returns the half-open index range of receivers in the
// sorted rec array that match index/line with point in [pmin, pmax].
func receiverRange(recs []PointRecord, index, line, pmin, pmax int32) (int, int) {
	lo := sort.Search(len(recs), func(i int) bool {
		return !pointLess(recs[i], PointRecord{Index: index, Line: line, Point: pmin})
	})
	hi := sort.Search(len(recs), func(i int) bool {
		return pointLess(PointRecord{Index: index, Line: line, Point: pmax}, recs[i])
	})
	return lo, hi
}
