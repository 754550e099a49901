package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/latticeci/lattice/internal/clock"
	"github.com/latticeci/lattice/internal/constants"
	"github.com/latticeci/lattice/internal/domain"
)

// CellExecutor runs one matrix cell to completion. CellRunner is the real
// implementation; tests substitute fakes.
type CellExecutor interface {
	RunCell(ctx context.Context, cell domain.MatrixCell, plan Plan) (domain.CellResult, error)
}

// Orchestrator schedules matrix cells as independent parallel execution
// units. Cells share no mutable state and never communicate; the only
// cross-cell effect is cancellation, either fail-fast on the first cell
// failure or propagation of a run-level cancel.
type Orchestrator struct {
	cells  CellExecutor
	clk    clock.Clock
	logger zerolog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCellExecutor sets a custom cell executor (used by tests).
func WithCellExecutor(e CellExecutor) OrchestratorOption {
	return func(o *Orchestrator) {
		o.cells = e
	}
}

// WithOrchestratorClock sets a custom clock.
func WithOrchestratorClock(c clock.Clock) OrchestratorOption {
	return func(o *Orchestrator) {
		o.clk = c
	}
}

// NewOrchestrator creates an orchestrator that executes cells with the given
// cell runner.
func NewOrchestrator(cellRunner *CellRunner, logger zerolog.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		cells:  cellRunner,
		clk:    clock.RealClock{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes every cell of the expanded matrix under the plan's policy and
// returns the aggregated result. The overall status is the logical AND of
// all cell statuses; under fail-fast the first failure short-circuits the
// run by canceling every sibling cell that has not completed.
//
// Run itself returns an error only for run-level problems; per-cell failures
// are reported through the result so callers always see every cell's status.
func (o *Orchestrator) Run(ctx context.Context, cells []domain.MatrixCell, plan Plan) *domain.RunResult {
	runID := uuid.NewString()
	log := o.logger.With().Str("run_id", runID).Logger()

	result := &domain.RunResult{
		RunID:     runID,
		StartedAt: o.clk.Now().UTC(),
		Cells:     make([]domain.CellResult, len(cells)),
	}

	log.Info().
		Int("cells", len(cells)).
		Bool("fail_fast", plan.FailFast).
		Int("max_parallel", plan.MaxParallel).
		Msg("run started")

	g, gctx := errgroup.WithContext(ctx)
	if plan.MaxParallel > 0 {
		g.SetLimit(plan.MaxParallel)
	}

	var mu sync.Mutex
	for i, cell := range cells {
		g.Go(func() error {
			cellResult, err := o.cells.RunCell(gctx, cell, plan)

			mu.Lock()
			result.Cells[i] = cellResult
			mu.Unlock()

			// Returning the error cancels gctx, which is exactly the
			// fail-fast policy. Without fail-fast, failures are already
			// recorded in the result and must not disturb siblings.
			if err != nil && plan.FailFast {
				return err
			}
			return nil
		})
	}

	// The first error under fail-fast is reflected in cell statuses; the
	// group error itself carries no extra information.
	_ = g.Wait()

	result.CompletedAt = o.clk.Now().UTC()
	o.aggregate(ctx, result)

	log.Info().
		Str("status", result.Status.String()).
		Dur("duration", result.Duration()).
		Msg("run finished")

	return result
}

// aggregate computes the run status from the cell statuses.
// Priority: user cancellation > any failure > passed.
func (o *Orchestrator) aggregate(ctx context.Context, result *domain.RunResult) {
	var failed, canceled int
	for _, c := range result.Cells {
		switch c.Status {
		case constants.CellStatusFailed:
			failed++
		case constants.CellStatusCanceled:
			canceled++
		case constants.CellStatusPassed, constants.CellStatusPending, constants.CellStatusRunning:
		}
	}

	switch {
	case ctx.Err() != nil && failed == 0:
		// The run itself was canceled from outside.
		result.Status = constants.RunStatusCanceled
		result.Reason = "run canceled"
	case failed > 0:
		result.Status = constants.RunStatusFailed
		result.Reason = fmt.Sprintf("%d of %d cells failed", failed, len(result.Cells))
	default:
		result.Status = constants.RunStatusPassed
	}
}

// SkippedRun builds the result for an event the trigger rules did not match.
// A skipped run schedules no cells and is a no-op, not an error.
func (o *Orchestrator) SkippedRun(reason string) *domain.RunResult {
	now := o.clk.Now().UTC()
	return &domain.RunResult{
		RunID:       uuid.NewString(),
		Status:      constants.RunStatusSkipped,
		Reason:      reason,
		StartedAt:   now,
		CompletedAt: now,
	}
}
