package survey

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats are the aggregate statistics of one binning pass. Fold extrema run
// over every cell of the grid; offset extrema and the fold moments run over
// touched cells only, so empty grid margins do not drag them to zero.
type Stats struct {
	Bins        int
	TouchedBins int
	TotalTraces int64

	MinimumFold int32
	MaximumFold int32
	MeanFold    float64
	StdDevFold  float64

	MinMinOffset float64
	MaxMinOffset float64
	MinMaxOffset float64
	MaxMaxOffset float64
}

// Stats reduces the grid to its aggregate statistics.
func (g *BinGrid) Stats() Stats {
	st := Stats{Bins: len(g.Fold)}
	if len(g.Fold) == 0 {
		return st
	}

	st.MinimumFold = g.Fold[0]
	st.MaximumFold = g.Fold[0]

	touchedFold := make([]float64, 0, len(g.Fold))
	minOff := make([]float64, 0, len(g.Fold))
	maxOff := make([]float64, 0, len(g.Fold))

	for i, fold := range g.Fold {
		if fold < st.MinimumFold {
			st.MinimumFold = fold
		}
		if fold > st.MaximumFold {
			st.MaximumFold = fold
		}
		st.TotalTraces += int64(fold)
		if !g.touched[i] {
			continue
		}
		touchedFold = append(touchedFold, float64(fold))
		minOff = append(minOff, g.MinOffset[i])
		maxOff = append(maxOff, g.MaxOffset[i])
	}

	st.TouchedBins = len(touchedFold)
	if st.TouchedBins == 0 {
		return st
	}

	st.MeanFold, st.StdDevFold = stat.MeanStdDev(touchedFold, nil)
	if st.TouchedBins == 1 {
		st.StdDevFold = 0
	}
	st.MinMinOffset = floats.Min(minOff)
	st.MaxMinOffset = floats.Max(minOff)
	st.MinMaxOffset = floats.Min(maxOff)
	st.MaxMaxOffset = floats.Max(maxOff)
	return st
}
