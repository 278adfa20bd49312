package survey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// RunStatus represents the current state of a survey run.
type RunStatus string

const (
	RunStatusIdle      RunStatus = "idle"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusCanceled  RunStatus = "canceled"
	RunStatusFailed    RunStatus = "failed"
)

// RunState holds the externally visible state of a run. Progress is the
// advisory overall percentage: assembly covers the first half, binning the
// second.
type RunState struct {
	Status      RunStatus  `json:"status"`
	Progress    int        `json:"progress"`
	Shots       int        `json:"shots"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Runner executes one full geometry-assembly-and-binning pass per survey
// in a background goroutine. The output arrays are owned by the worker
// until the pass completes; Result exposes them only for a Completed run,
// so a canceled or failed pass never leaks partial output.
type Runner struct {
	mu     sync.RWMutex
	survey *Survey
	state  RunState
	cancel context.CancelFunc
	done   chan struct{}

	geometry *Geometry
	grid     *BinGrid
	stats    Stats
}

// NewRunner creates a runner for the given survey.
func NewRunner(s *Survey) *Runner {
	return &Runner{
		survey: s,
		state:  RunState{Status: RunStatusIdle},
	}
}

// GetRunState returns a copy of the current run state.
func (r *Runner) GetRunState() RunState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Result returns the assembled geometry, the bin grid and its aggregate
// statistics. It errors for any status other than Completed.
func (r *Runner) Result() (*Geometry, *BinGrid, Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state.Status != RunStatusCompleted {
		return nil, nil, Stats{}, fmt.Errorf("run is %s, no output available", r.state.Status)
	}
	return r.geometry, r.grid, r.stats, nil
}

// Done returns a channel closed when the current run finishes, in any
// terminal status. Nil when no run was ever started.
func (r *Runner) Done() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.done
}

// Start prepares the survey and begins a run in the background. It errors
// when a run is already in progress or the survey configuration is
// invalid; preparation failures never enter the Running state.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state.Status == RunStatusRunning {
		r.mu.Unlock()
		return fmt.Errorf("run already in progress")
	}

	// Prepare mutates the survey, so it must not run while a worker
	// goroutine is reading it. Holding the lock with the status checked
	// guarantees no worker is active.
	if err := r.survey.Prepare(); err != nil {
		r.mu.Unlock()
		return err
	}

	now := time.Now()
	r.state = RunState{
		Status:    RunStatusRunning,
		StartedAt: &now,
		Shots:     r.survey.ShotPoints(),
	}
	r.geometry = nil
	r.grid = nil
	r.stats = Stats{}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.mu.Unlock()

	go r.run(runCtx)
	return nil
}

// Stop cancels a running pass. The run transitions to Canceled once the
// worker observes the cancellation.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// run executes the pass in a background goroutine.
func (r *Runner) run(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		done := r.done
		r.mu.Unlock()
		close(done)
	}()

	log.Printf("[survey] starting run: %d shots", r.survey.ShotPoints())

	geometry, err := r.survey.AssembleGeometry(ctx, func(pct int) {
		r.setProgress(pct / 2)
	})
	if err != nil {
		r.finish(err)
		return
	}
	log.Printf("[survey] geometry assembled: %d sources, %d receivers, %d relations",
		len(geometry.Src), len(geometry.Rec), len(geometry.Rel))

	grid, err := r.survey.BinFromGeometry(ctx, geometry, func(pct int) {
		r.setProgress(50 + pct/2)
	})
	if err != nil {
		r.finish(err)
		return
	}
	stats := grid.Stats()
	log.Printf("[survey] binning complete: %d/%d bins touched, fold %d..%d",
		stats.TouchedBins, stats.Bins, stats.MinimumFold, stats.MaximumFold)

	r.mu.Lock()
	r.geometry = geometry
	r.grid = grid
	r.stats = stats
	r.mu.Unlock()
	r.finish(nil)
}

func (r *Runner) setProgress(pct int) {
	r.mu.Lock()
	if pct > r.state.Progress {
		r.state.Progress = pct
	}
	r.mu.Unlock()
}

func (r *Runner) finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.state.CompletedAt = &now
	switch {
	case err == nil:
		r.state.Status = RunStatusCompleted
		r.state.Progress = 100
	case errors.Is(err, ErrCanceled):
		r.state.Status = RunStatusCanceled
		r.state.Error = err.Error()
	default:
		r.state.Status = RunStatusFailed
		r.state.Error = err.Error()
	}
	r.cancel = nil
}
