// Package monitor renders fold and offset results for human inspection:
// static PNG maps via gonum/plot and an interactive HTML report via
// go-echarts.
package monitor

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/geoplan-data/fold.report/internal/survey"
)

// GridLayer selects which per-bin quantity a plot shows.
type GridLayer string

const (
	LayerFold      GridLayer = "fold"
	LayerMinOffset GridLayer = "min_offset"
	LayerMaxOffset GridLayer = "max_offset"
)

// gridXYZ adapts one layer of a BinGrid to plotter.GridXYZ. X/Y report
// bin-center coordinates in the local frame.
type gridXYZ struct {
	grid  *survey.BinGrid
	layer GridLayer
}

func (g gridXYZ) Dims() (int, int) { return g.grid.Nx, g.grid.Ny }

func (g gridXYZ) X(c int) float64 {
	return g.grid.Area.XMin + (float64(c)+0.5)*g.grid.BinSizeX
}

func (g gridXYZ) Y(r int) float64 {
	return g.grid.Area.YMin + (float64(r)+0.5)*g.grid.BinSizeY
}

func (g gridXYZ) Z(c, r int) float64 {
	idx := c*g.grid.Ny + r
	switch g.layer {
	case LayerMinOffset:
		return g.grid.MinOffset[idx]
	case LayerMaxOffset:
		return g.grid.MaxOffset[idx]
	default:
		return float64(g.grid.Fold[idx])
	}
}

// SaveGridPlot renders one layer of the grid as a heat map PNG.
func SaveGridPlot(grid *survey.BinGrid, layer GridLayer, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	hm := plotter.NewHeatMap(gridXYZ{grid: grid, layer: layer}, palette.Heat(16, 1))
	p.Add(hm)

	if err := p.Save(10*vg.Inch, 10*vg.Inch*vg.Length(grid.Ny)/vg.Length(grid.Nx), path); err != nil {
		return fmt.Errorf("failed to save %s plot: %w", layer, err)
	}
	return nil
}
