// Command foldplot re-renders the fold grid of a persisted run as a PNG
// heat map, without recomputing the survey.
package main

import (
	"flag"
	"log"

	"github.com/geoplan-data/fold.report/internal/geom"
	"github.com/geoplan-data/fold.report/internal/monitor"
	"github.com/geoplan-data/fold.report/internal/survey"
	"github.com/geoplan-data/fold.report/internal/survey/storage/sqlite"
)

func main() {
	dbPath := flag.String("db", "runs.db", "path to the run database")
	runID := flag.String("run", "", "run ID to plot (default: newest run)")
	out := flag.String("out", "fold.png", "output PNG path")
	flag.Parse()

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	store, err := sqlite.NewRunStore(db)
	if err != nil {
		log.Fatalf("failed to open run store: %v", err)
	}

	id := *runID
	if id == "" {
		runs, err := store.ListRuns("")
		if err != nil {
			log.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			log.Fatal("no runs in database")
		}
		id = runs[0].RunID
	}

	run, err := store.GetRun(id)
	if err != nil {
		log.Fatalf("failed to load run: %v", err)
	}
	fold, err := store.GetFold(id)
	if err != nil {
		log.Fatalf("failed to load fold grid: %v", err)
	}
	if len(fold) != run.Nx*run.Ny {
		log.Fatalf("fold grid has %d cells, expected %dx%d", len(fold), run.Nx, run.Ny)
	}

	// Rebuild a minimal grid around the stored fold; offsets are not
	// persisted, so only the fold layer can be plotted.
	grid := &survey.BinGrid{
		Area: geom.NewRect(0, 0,
			float64(run.Nx)*run.BinSizeX, float64(run.Ny)*run.BinSizeY),
		BinSizeX:  run.BinSizeX,
		BinSizeY:  run.BinSizeY,
		Nx:        run.Nx,
		Ny:        run.Ny,
		Fold:      fold,
		MinOffset: make([]float64, len(fold)),
		MaxOffset: make([]float64, len(fold)),
	}

	title := run.SurveyName + " (" + run.RunID + ")"
	if err := monitor.SaveGridPlot(grid, monitor.LayerFold, title, *out); err != nil {
		log.Fatalf("failed to write fold plot: %v", err)
	}
	log.Printf("fold plot for run %s written to %s", run.RunID, *out)
}
