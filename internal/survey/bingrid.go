package survey

import (
	"math"

	"github.com/geoplan-data/fold.report/internal/geom"
)

// TraceDetail is one recorded trace of a full-analysis run: the stake
// position of the bin, the 1-based fold slot the trace landed in, and the
// local source, receiver and reflection coordinates.
type TraceDetail struct {
	StakeX   float64
	StakeY   float64
	FoldSlot int32
	SrcX     float64
	SrcY     float64
	RecX     float64
	RecY     float64
	CmpX     float64
	CmpY     float64
}

// BinGrid accumulates fold and offset statistics over a dense 2D grid of
// bins covering the output area. Cells are addressed by integer indices
// (ix, iy) with ix along x; the flat index is ix*Ny + iy. Untouched cells
// are tracked with an explicit mask, so MinOffset/MaxOffset hold plain
// zeros rather than infinities for cells no trace ever reached.
type BinGrid struct {
	Area     geom.Rect
	BinSizeX float64
	BinSizeY float64
	Nx       int
	Ny       int
	MaxFold  int

	Fold      []int32
	MinOffset []float64
	MaxOffset []float64
	touched   []bool

	// Detail is nil unless full analysis was requested. It holds
	// Nx*Ny*MaxFold slots; Overflow counts traces that incremented fold
	// after their cell's detail slots were exhausted.
	Detail   []TraceDetail
	Overflow int
}

// NewBinGrid sizes a grid over area with the given bin dimensions. With
// fullAnalysis the per-trace detail array is allocated up front; maxFold
// bounds the recorded traces per cell.
func NewBinGrid(area geom.Rect, binSizeX, binSizeY float64, maxFold int, fullAnalysis bool) *BinGrid {
	nx := int(math.Ceil(area.Width() / binSizeX))
	ny := int(math.Ceil(area.Height() / binSizeY))
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	g := &BinGrid{
		Area:      area,
		BinSizeX:  binSizeX,
		BinSizeY:  binSizeY,
		Nx:        nx,
		Ny:        ny,
		MaxFold:   maxFold,
		Fold:      make([]int32, nx*ny),
		MinOffset: make([]float64, nx*ny),
		MaxOffset: make([]float64, nx*ny),
		touched:   make([]bool, nx*ny),
	}
	if fullAnalysis && maxFold > 0 {
		g.Detail = make([]TraceDetail, nx*ny*maxFold)
	}
	return g
}

// Accumulate records one accepted trace in cell (ix, iy) with the given
// radial offset. Out-of-range indices drop the trace; a floating-point edge
// landing just past the outer boundary skips that trace only, never the
// run. Detail is recorded while the cell's fold is below MaxFold; later
// traces still count toward fold but are tallied in Overflow instead.
func (g *BinGrid) Accumulate(ix, iy int, offset float64, det TraceDetail) {
	if ix < 0 || ix >= g.Nx || iy < 0 || iy >= g.Ny {
		return
	}
	idx := ix*g.Ny + iy
	fold := g.Fold[idx]

	if !g.touched[idx] {
		g.touched[idx] = true
		g.MinOffset[idx] = offset
		g.MaxOffset[idx] = offset
	} else {
		if offset < g.MinOffset[idx] {
			g.MinOffset[idx] = offset
		}
		if offset > g.MaxOffset[idx] {
			g.MaxOffset[idx] = offset
		}
	}

	if g.Detail != nil {
		if int(fold) < g.MaxFold {
			det.FoldSlot = fold + 1
			g.Detail[idx*g.MaxFold+int(fold)] = det
		} else {
			g.Overflow++
		}
	}
	g.Fold[idx]++
}

// Touched reports whether any trace landed in cell (ix, iy).
func (g *BinGrid) Touched(ix, iy int) bool { return g.touched[ix*g.Ny+iy] }

// FoldAt returns the fold of cell (ix, iy).
func (g *BinGrid) FoldAt(ix, iy int) int32 { return g.Fold[ix*g.Ny+iy] }

// OffsetsAt returns the min and max radial offset of cell (ix, iy). Both
// are zero for untouched cells.
func (g *BinGrid) OffsetsAt(ix, iy int) (min, max float64) {
	idx := ix*g.Ny + iy
	return g.MinOffset[idx], g.MaxOffset[idx]
}

// DetailAt returns the recorded traces of cell (ix, iy), at most MaxFold of
// them. Nil when full analysis was not requested.
func (g *BinGrid) DetailAt(ix, iy int) []TraceDetail {
	if g.Detail == nil {
		return nil
	}
	idx := ix*g.Ny + iy
	n := int(g.Fold[idx])
	if n > g.MaxFold {
		n = g.MaxFold
	}
	return g.Detail[idx*g.MaxFold : idx*g.MaxFold+n]
}
