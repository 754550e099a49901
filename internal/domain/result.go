package domain

import (
	"time"

	"github.com/latticeci/lattice/internal/constants"
)

// StepResult records the outcome of one executed (or skipped) step.
type StepResult struct {
	// StepIndex is the position of the step within the cell's sequence.
	StepIndex int `json:"step_index"`

	// StepName is the name from the step definition.
	StepName string `json:"step_name"`

	// Status is success, failed, or skipped.
	Status constants.StepStatus `json:"status"`

	// Output is the combined stdout/stderr of the step, secret-masked.
	Output string `json:"output,omitempty"`

	// ExitCode is the process exit code; zero on success, -1 if the
	// process never started.
	ExitCode int `json:"exit_code"`

	// Error holds the failure description when Status is failed.
	Error string `json:"error,omitempty"`

	// StartedAt and CompletedAt bound the step's execution.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Duration returns how long the step ran.
func (r *StepResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// CellResult records the outcome of one matrix cell.
// Failure in one cell never mutates another cell's result; the only
// cross-cell effect is fail-fast cancellation.
type CellResult struct {
	// Cell identifies the (OS, runtime version) pair.
	Cell MatrixCell `json:"cell"`

	// Status is the terminal cell status.
	Status constants.CellStatus `json:"status"`

	// Steps holds one result per defined step, in execution order.
	// Steps after the first required failure are recorded as skipped.
	Steps []StepResult `json:"steps"`

	// FailedStep names the step that failed the cell, if any.
	FailedStep string `json:"failed_step,omitempty"`

	// Error holds the cell-level failure description, if any.
	Error string `json:"error,omitempty"`

	// StartedAt and CompletedAt bound the cell's execution.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Duration returns how long the cell ran.
func (r *CellResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// RunResult is the aggregated outcome of an orchestrator run.
type RunResult struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// Status is the aggregated run status: passed iff every cell passed.
	Status constants.RunStatus `json:"status"`

	// Reason explains skipped runs (trigger mismatch) and cancellations.
	Reason string `json:"reason,omitempty"`

	// Cells holds one result per scheduled cell.
	Cells []CellResult `json:"cells"`

	// StartedAt and CompletedAt bound the run.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Duration returns how long the run took.
func (r *RunResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// Passed reports whether every cell passed.
func (r *RunResult) Passed() bool {
	return r.Status == constants.RunStatusPassed
}

// FailedCells returns the results of cells that failed.
func (r *RunResult) FailedCells() []CellResult {
	var failed []CellResult
	for _, c := range r.Cells {
		if c.Status == constants.CellStatusFailed {
			failed = append(failed, c)
		}
	}
	return failed
}
