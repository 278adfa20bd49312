package monitor

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/geoplan-data/fold.report/internal/survey"
)

// viridis is the color ramp used for the fold visual map.
var viridis = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// WriteFoldReport renders an interactive fold map of all touched bins as a
// standalone HTML page. Untouched bins are omitted to keep the page small
// for sparse surveys.
func WriteFoldReport(grid *survey.BinGrid, stats survey.Stats, name string, w io.Writer) error {
	data := make([]opts.ScatterData, 0, stats.TouchedBins)
	for ix := 0; ix < grid.Nx; ix++ {
		for iy := 0; iy < grid.Ny; iy++ {
			if !grid.Touched(ix, iy) {
				continue
			}
			x := grid.Area.XMin + (float64(ix)+0.5)*grid.BinSizeX
			y := grid.Area.YMin + (float64(iy)+0.5)*grid.BinSizeY
			data = append(data, opts.ScatterData{
				Value: []interface{}{x, y, grid.FoldAt(ix, iy)},
			})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Fold Map", Theme: "dark", Width: "900px", Height: "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Fold Map",
			Subtitle: fmt.Sprintf("survey=%s bins=%d touched=%d fold=%d..%d",
				name, stats.Bins, stats.TouchedBins, stats.MinimumFold, stats.MaximumFold),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(stats.MinimumFold),
			Max:        float32(stats.MaximumFold),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("fold", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render fold report: %w", err)
	}
	return nil
}

// SaveFoldReport writes the fold report to an HTML file.
func SaveFoldReport(grid *survey.BinGrid, stats survey.Stats, name, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create fold report: %w", err)
	}
	defer f.Close()
	return WriteFoldReport(grid, stats, name, f)
}
