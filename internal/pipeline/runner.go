package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tenderhound/tenderhound/internal/cursor"
)

// Runner is the single-run-at-a-time slot the HTTP trigger hands run
// requests to. A second trigger while a run is active is rejected rather
// than queued or run concurrently.
type Runner struct {
	orch *Orchestrator

	mu     sync.Mutex
	active bool
}

func NewRunner(orch *Orchestrator) *Runner {
	return &Runner{orch: orch}
}

// TryStart begins a harvest from start in the background and returns its
// run id. Returns false without starting anything when a run is already
// active. Pipeline errors are logged, never surfaced to the trigger.
func (r *Runner) TryStart(start cursor.Date) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return uuid.Nil, false
	}
	r.active = true

	runID := uuid.New()
	go func() {
		defer func() {
			r.mu.Lock()
			r.active = false
			r.mu.Unlock()
		}()

		slog.Info("Harvest run started", "run_id", runID, "start", start.String())
		if err := r.orch.Run(context.Background(), start); err != nil {
			slog.Error("Harvest run failed", "run_id", runID, "error", err)
			return
		}
		slog.Info("Harvest run finished", "run_id", runID)
	}()

	return runID, true
}

// Active reports whether a run currently occupies the slot.
func (r *Runner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}
