// Command survey runs one geometry-assembly-and-binning pass over a survey
// configuration file and reports the resulting fold statistics. The run can
// optionally be persisted to a sqlite database and rendered as a PNG fold
// map or an HTML report.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geoplan-data/fold.report/internal/config"
	"github.com/geoplan-data/fold.report/internal/monitor"
	"github.com/geoplan-data/fold.report/internal/survey"
	"github.com/geoplan-data/fold.report/internal/survey/storage/sqlite"
	"github.com/geoplan-data/fold.report/internal/version"
)

func main() {
	configPath := flag.String("config", "survey.json", "path to the survey configuration file")
	dbPath := flag.String("db", "", "persist the run to this sqlite database")
	plotPath := flag.String("plot", "", "write a fold heat map PNG to this path")
	reportPath := flag.String("report", "", "write an HTML fold report to this path")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		log.Printf("fold.report %s", version.String())
		return
	}

	s, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load survey: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := survey.NewRunner(s)
	if err := runner.Start(ctx); err != nil {
		log.Fatalf("failed to start run: %v", err)
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-runner.Done():
		case <-ticker.C:
			state := runner.GetRunState()
			log.Printf("[survey] %s: %d%%", state.Status, state.Progress)
			continue
		}
		break
	}

	state := runner.GetRunState()
	if state.Status != survey.RunStatusCompleted {
		log.Fatalf("run %s: %s", state.Status, state.Error)
	}

	geometry, grid, stats, err := runner.Result()
	if err != nil {
		log.Fatalf("failed to read result: %v", err)
	}
	log.Printf("geometry: %d sources, %d receivers, %d relations",
		len(geometry.Src), len(geometry.Rec), len(geometry.Rel))
	log.Printf("fold: min=%d max=%d mean=%.2f stddev=%.2f over %d/%d bins",
		stats.MinimumFold, stats.MaximumFold, stats.MeanFold, stats.StdDevFold,
		stats.TouchedBins, stats.Bins)
	log.Printf("offsets: min %.1f..%.1f, max %.1f..%.1f",
		stats.MinMinOffset, stats.MaxMinOffset, stats.MinMaxOffset, stats.MaxMaxOffset)

	if *dbPath != "" {
		db, err := sqlite.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		store, err := sqlite.NewRunStore(db)
		if err != nil {
			log.Fatalf("failed to open run store: %v", err)
		}
		run := &sqlite.Run{
			SurveyName:  s.Name,
			Method:      string(s.Binning.Method),
			Status:      string(state.Status),
			Shots:       s.ShotPoints(),
			MinimumFold: stats.MinimumFold,
			MaximumFold: stats.MaximumFold,
			MeanFold:    stats.MeanFold,
		}
		if err := store.InsertRun(run, grid); err != nil {
			log.Fatalf("failed to persist run: %v", err)
		}
		log.Printf("run persisted as %s", run.RunID)
	}

	if *plotPath != "" {
		if err := monitor.SaveGridPlot(grid, monitor.LayerFold, s.Name, *plotPath); err != nil {
			log.Fatalf("failed to write fold plot: %v", err)
		}
		log.Printf("fold plot written to %s", *plotPath)
	}

	if *reportPath != "" {
		if err := monitor.SaveFoldReport(grid, stats, s.Name, *reportPath); err != nil {
			log.Fatalf("failed to write fold report: %v", err)
		}
		log.Printf("fold report written to %s", *reportPath)
	}
}
