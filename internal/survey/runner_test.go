package survey

import (
	"context"
	"testing"
	"time"
)

func waitDone(t *testing.T, r *Runner) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(30 * time.Second):
		t.Fatal("run did not finish in time")
	}
}

func TestRunnerCompletes(t *testing.T) {
	r := NewRunner(crossSpread())
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitDone(t, r)

	state := r.GetRunState()
	if state.Status != RunStatusCompleted {
		t.Fatalf("status = %s (%s), want completed", state.Status, state.Error)
	}
	if state.Progress != 100 {
		t.Errorf("progress = %d, want 100", state.Progress)
	}
	if state.StartedAt == nil || state.CompletedAt == nil {
		t.Error("timestamps not recorded")
	}

	geometry, grid, stats, err := r.Result()
	if err != nil {
		t.Fatal(err)
	}
	if len(geometry.Src) != 2 || len(geometry.Rec) != 3 {
		t.Errorf("geometry has %d sources and %d receivers, want 2 and 3",
			len(geometry.Src), len(geometry.Rec))
	}
	if grid == nil || stats.TotalTraces != 6 {
		t.Errorf("stats.TotalTraces = %d, want 6", stats.TotalTraces)
	}
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(crossSpread())
	if err := r.Start(ctx); err != nil {
		t.Fatal(err)
	}
	waitDone(t, r)

	state := r.GetRunState()
	if state.Status != RunStatusCanceled {
		t.Fatalf("status = %s, want canceled", state.Status)
	}
	if _, _, _, err := r.Result(); err == nil {
		t.Error("canceled run must not expose output")
	}
}

func TestRunnerRejectsInvalidSurvey(t *testing.T) {
	s := crossSpread()
	s.Blocks = nil

	r := NewRunner(s)
	if err := r.Start(context.Background()); err == nil {
		t.Fatal("expected configuration error from Start")
	}
	if state := r.GetRunState(); state.Status != RunStatusIdle {
		t.Errorf("status = %s, want idle after rejected start", state.Status)
	}
}

func TestRunnerStartWhileRunningLeavesSurveyAlone(t *testing.T) {
	s := crossSpread()
	r := NewRunner(s)
	r.mu.Lock()
	r.state.Status = RunStatusRunning
	r.mu.Unlock()

	if err := r.Start(context.Background()); err == nil {
		t.Fatal("expected error for a second start during a run")
	}
	// The rejected start must bail out before preparing the survey.
	if s.ShotPoints() != 0 {
		t.Errorf("rejected start prepared the survey: %d shots", s.ShotPoints())
	}
}

func TestRunnerStopIsIdempotent(t *testing.T) {
	r := NewRunner(crossSpread())
	r.Stop() // no run yet

	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitDone(t, r)
	r.Stop() // run already finished
}
