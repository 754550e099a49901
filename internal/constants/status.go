package constants

// CellStatus represents the state of a matrix cell during a run.
// Status values use snake_case for JSON serialization compatibility.
type CellStatus string

// Cell status constants define the valid states a cell can be in.
// Cells move strictly forward:
//
//	Pending → Running
//	Running → Passed, Failed, Canceled
//	Pending → Canceled (fail-fast before the cell started)
const (
	// CellStatusPending indicates a cell is scheduled but not yet started.
	CellStatusPending CellStatus = "pending"

	// CellStatusRunning indicates the cell's step sequence is executing.
	CellStatusRunning CellStatus = "running"

	// CellStatusPassed indicates every required step in the cell succeeded.
	CellStatusPassed CellStatus = "passed"

	// CellStatusFailed indicates a required step in the cell failed.
	CellStatusFailed CellStatus = "failed"

	// CellStatusCanceled indicates the cell was canceled before completion,
	// either by fail-fast propagation or by run cancellation.
	CellStatusCanceled CellStatus = "canceled"
)

// String returns the string representation of the CellStatus.
func (s CellStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status is a final state.
func (s CellStatus) IsTerminal() bool {
	switch s {
	case CellStatusPassed, CellStatusFailed, CellStatusCanceled:
		return true
	case CellStatusPending, CellStatusRunning:
		return false
	}
	return false
}

// StepStatus represents the outcome of a single pipeline step.
type StepStatus string

// Step status constants.
const (
	// StepStatusSuccess indicates the step completed with a zero exit.
	StepStatusSuccess StepStatus = "success"

	// StepStatusFailed indicates the step exited non-zero or could not start.
	StepStatusFailed StepStatus = "failed"

	// StepStatusSkipped indicates the step never ran because an earlier
	// required step failed or the cell was canceled.
	StepStatusSkipped StepStatus = "skipped"
)

// String returns the string representation of the StepStatus.
func (s StepStatus) String() string {
	return string(s)
}

// RunStatus represents the aggregated outcome of an orchestrator run.
type RunStatus string

// Run status constants. Overall status is the logical AND of all cell
// statuses, short-circuited to failed when fail-fast cancels siblings.
const (
	// RunStatusPassed indicates every cell passed.
	RunStatusPassed RunStatus = "passed"

	// RunStatusFailed indicates at least one cell failed.
	RunStatusFailed RunStatus = "failed"

	// RunStatusCanceled indicates the run was canceled before completion.
	RunStatusCanceled RunStatus = "canceled"

	// RunStatusSkipped indicates the trigger did not match and no cells ran.
	// A skipped run is a no-op, never an error.
	RunStatusSkipped RunStatus = "skipped"
)

// String returns the string representation of the RunStatus.
func (s RunStatus) String() string {
	return string(s)
}
