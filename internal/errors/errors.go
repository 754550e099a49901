// Package errors provides centralized error handling for lattice.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrInvalidConfig indicates the configuration failed validation
	// (empty matrix axes, unknown event type, bad glob pattern, etc.).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidEvent indicates a repository event payload could not be
	// parsed or is missing required fields.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrProvision indicates the ephemeral cell environment or the runtime
	// for the cell's version could not be acquired. Fatal to the cell, never
	// retried.
	ErrProvision = errors.New("environment provisioning failed")

	// ErrInstallFailed indicates tooling or project dependency installation
	// exited non-zero. Fatal to the cell.
	ErrInstallFailed = errors.New("dependency install failed")

	// ErrFormatCheck indicates the formatting-consistency check exited
	// non-zero. Treated identically to a test failure: validation failed,
	// not an infrastructure failure.
	ErrFormatCheck = errors.New("format check failed")

	// ErrTestsFailed indicates the project test suite exited non-zero.
	ErrTestsFailed = errors.New("test suite failed")

	// ErrStepFailed indicates a pipeline step failed for a reason not covered
	// by a more specific sentinel (e.g. the diagnostic version print).
	ErrStepFailed = errors.New("step failed")

	// ErrCellTimeout indicates a cell exceeded its configured timeout.
	ErrCellTimeout = errors.New("cell timed out")

	// ErrRunFailed indicates at least one matrix cell failed; used for
	// exit-code aggregation at the CLI boundary.
	ErrRunFailed = errors.New("pipeline run failed")

	// ErrRunInProgress indicates another lattice run already holds the run
	// lock for this lattice home.
	ErrRunInProgress = errors.New("another run is already in progress")

	// ErrInvalidOutputFormat indicates an unsupported --output format value.
	ErrInvalidOutputFormat = errors.New("invalid output format")
)
