package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/latticeci/lattice/internal/clock"
	"github.com/latticeci/lattice/internal/constants"
	"github.com/latticeci/lattice/internal/ctxutil"
	"github.com/latticeci/lattice/internal/domain"
	latticeerrors "github.com/latticeci/lattice/internal/errors"
	"github.com/latticeci/lattice/internal/logging"
)

// CellRunner executes the step sequence of a single matrix cell.
// Steps run strictly sequentially; the first failed required step halts the
// remaining steps of that cell only. No step is retried.
type CellRunner struct {
	commands    CommandRunner
	provisioner Provisioner
	masker      *logging.Masker
	clk         clock.Clock
	logger      zerolog.Logger
	echo        io.Writer
}

// CellRunnerOption configures a CellRunner.
type CellRunnerOption func(*CellRunner)

// WithCommandRunner sets a custom command runner (used by tests).
func WithCommandRunner(r CommandRunner) CellRunnerOption {
	return func(cr *CellRunner) {
		cr.commands = r
	}
}

// WithProvisioner sets a custom workspace provisioner.
func WithProvisioner(p Provisioner) CellRunnerOption {
	return func(cr *CellRunner) {
		cr.provisioner = p
	}
}

// WithClock sets a custom clock (used by tests for deterministic timings).
func WithClock(c clock.Clock) CellRunnerOption {
	return func(cr *CellRunner) {
		cr.clk = c
	}
}

// WithMasker sets the secret masker applied to captured step output.
// A nil masker keeps the default empty masker.
func WithMasker(m *logging.Masker) CellRunnerOption {
	return func(cr *CellRunner) {
		if m != nil {
			cr.masker = m
		}
	}
}

// WithEcho streams step output to w as it is produced, in addition to
// capturing it. Only takes effect when the command runner supports echoing.
// Note: echoed output bypasses the masker; reserve it for verbose local runs.
func WithEcho(w io.Writer) CellRunnerOption {
	return func(cr *CellRunner) {
		cr.echo = w
	}
}

// NewCellRunner creates a cell runner with default collaborators: a shell
// command runner, a local scratch-directory provisioner, the system clock,
// and an empty secret masker.
func NewCellRunner(logger zerolog.Logger, opts ...CellRunnerOption) *CellRunner {
	cr := &CellRunner{
		commands:    &ShellRunner{},
		provisioner: &LocalProvisioner{},
		masker:      logging.NewMasker(),
		clk:         clock.RealClock{},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(cr)
	}
	return cr
}

// RunCell executes the plan's step sequence for one cell and returns the
// cell result. The result is always populated, even on failure; the error
// carries the failure category for the orchestrator's fail-fast decision.
//
// Failure semantics:
//   - context canceled before or during the cell: status canceled
//   - provisioning failure: status failed, no steps recorded as run
//   - required step failure: status failed, later steps recorded as skipped
//   - continue-on-error step failure: recorded, execution continues
func (cr *CellRunner) RunCell(ctx context.Context, cell domain.MatrixCell, plan Plan) (domain.CellResult, error) {
	log := cr.logger.With().Str("cell", cell.Key()).Logger()

	result := domain.CellResult{
		Cell:      cell,
		Status:    constants.CellStatusRunning,
		StartedAt: cr.clk.Now().UTC(),
	}

	if plan.CellTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, plan.CellTimeout, latticeerrors.ErrCellTimeout)
		defer cancel()
	}

	if err := ctxutil.Canceled(ctx); err != nil {
		return cr.finishCanceled(result, plan.Steps, 0), err
	}

	ws, cleanup, err := cr.provisioner.Provision(ctx, cell)
	if err != nil {
		log.Error().Err(err).Msg("provisioning failed")
		return cr.finishFailed(result, plan.Steps, 0, "", err), err
	}
	defer cleanup()

	log.Info().Str("workdir", ws.Dir).Msg("cell started")

	for i, step := range plan.Steps {
		if err := ctxutil.Canceled(ctx); err != nil {
			if stderrors.Is(context.Cause(ctx), latticeerrors.ErrCellTimeout) {
				return cr.finishFailed(result, plan.Steps, i, step.Name, latticeerrors.ErrCellTimeout), latticeerrors.ErrCellTimeout
			}
			return cr.finishCanceled(result, plan.Steps, i), err
		}

		stepResult := cr.runStep(ctx, log, cell, step, i, ws, plan)
		result.Steps = append(result.Steps, stepResult)

		if stepResult.Status == constants.StepStatusFailed && !step.ContinueOnError {
			// A step killed by the cell deadline is a timeout; one killed
			// by run-level or fail-fast cancellation leaves the cell
			// canceled. Neither is a validation failure.
			if err := ctxutil.Canceled(ctx); err != nil {
				if stderrors.Is(context.Cause(ctx), latticeerrors.ErrCellTimeout) {
					log.Error().Str("step", step.Name).Msg("cell timed out mid-step")
					return cr.finishFailed(result, plan.Steps, i+1, step.Name, latticeerrors.ErrCellTimeout), latticeerrors.ErrCellTimeout
				}
				log.Info().Str("step", step.Name).Msg("cell canceled mid-step")
				return cr.finishCanceled(result, plan.Steps, i+1), err
			}

			stepErr := cr.classifyFailure(step.Name, stepResult)
			log.Error().
				Str("step", step.Name).
				Int("exit_code", stepResult.ExitCode).
				Msg("required step failed, halting cell")
			return cr.finishFailed(result, plan.Steps, i+1, step.Name, stepErr), stepErr
		}
	}

	result.Status = constants.CellStatusPassed
	result.CompletedAt = cr.clk.Now().UTC()
	log.Info().Dur("duration", clock.Since(cr.clk, result.StartedAt)).Msg("cell passed")
	return result, nil
}

// runStep executes one step and returns its result. Output is captured and
// secret-masked before it is stored or logged.
func (cr *CellRunner) runStep(ctx context.Context, log zerolog.Logger, cell domain.MatrixCell, step domain.StepDefinition, index int, ws *Workspace, plan Plan) domain.StepResult {
	command := renderCommand(step.Command, cell, ws.Dir, plan.SourceDir)

	log.Info().Str("step", step.Name).Str("command", command).Msg("executing step")
	started := cr.clk.Now().UTC()

	workDir := plan.ProjectDir
	if workDir == "" {
		workDir = ws.Dir
	}

	var cmdResult CommandResult
	var err error
	if echoer, ok := cr.commands.(EchoCommandRunner); ok && cr.echo != nil {
		cmdResult, err = echoer.RunWithEcho(ctx, workDir, command, cr.echo)
	} else {
		cmdResult, err = cr.commands.Run(ctx, workDir, command)
	}

	stepResult := domain.StepResult{
		StepIndex:   index,
		StepName:    step.Name,
		Status:      constants.StepStatusSuccess,
		Output:      cr.masker.Mask(cmdResult.Output),
		ExitCode:    cmdResult.ExitCode,
		StartedAt:   started,
		CompletedAt: cr.clk.Now().UTC(),
	}

	if err != nil {
		stepResult.Status = constants.StepStatusFailed
		stepResult.Error = cr.masker.Mask(err.Error())
	}

	log.Debug().
		Str("step", step.Name).
		Str("status", stepResult.Status.String()).
		Dur("duration", stepResult.Duration()).
		Msg("step finished")

	return stepResult
}

// classifyFailure maps a failed step to its sentinel error category.
// Formatting and test failures are validation failures; everything before
// them is infrastructure.
func (cr *CellRunner) classifyFailure(stepName string, result domain.StepResult) error {
	var sentinel error
	switch stepName {
	case StepSetupRuntime, StepRuntimeVersion:
		sentinel = latticeerrors.ErrProvision
	case StepInstallDeps:
		sentinel = latticeerrors.ErrInstallFailed
	case StepFormatCheck:
		sentinel = latticeerrors.ErrFormatCheck
	case StepTest:
		sentinel = latticeerrors.ErrTestsFailed
	default:
		sentinel = latticeerrors.ErrStepFailed
	}
	return fmt.Errorf("%w: step %s exited with code %d", sentinel, stepName, result.ExitCode)
}

// finishFailed marks the cell failed, records the remaining steps as skipped,
// and stamps the completion time.
func (cr *CellRunner) finishFailed(result domain.CellResult, steps []domain.StepDefinition, nextStep int, failedStep string, err error) domain.CellResult {
	result.Status = constants.CellStatusFailed
	result.FailedStep = failedStep
	result.Error = err.Error()
	cr.appendSkipped(&result, steps, nextStep)
	result.CompletedAt = cr.clk.Now().UTC()
	return result
}

// finishCanceled marks the cell canceled and records unreached steps as skipped.
func (cr *CellRunner) finishCanceled(result domain.CellResult, steps []domain.StepDefinition, nextStep int) domain.CellResult {
	result.Status = constants.CellStatusCanceled
	cr.appendSkipped(&result, steps, nextStep)
	result.CompletedAt = cr.clk.Now().UTC()
	return result
}

// appendSkipped records skipped results for steps from nextStep onward.
func (cr *CellRunner) appendSkipped(result *domain.CellResult, steps []domain.StepDefinition, nextStep int) {
	now := cr.clk.Now().UTC()
	for i := nextStep; i < len(steps); i++ {
		result.Steps = append(result.Steps, domain.StepResult{
			StepIndex:   i,
			StepName:    steps[i].Name,
			Status:      constants.StepStatusSkipped,
			StartedAt:   now,
			CompletedAt: now,
		})
	}
}
