package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeci/lattice/internal/constants"
	"github.com/latticeci/lattice/internal/domain"
	latticeerrors "github.com/latticeci/lattice/internal/errors"
)

// scriptedRunner fails any command containing one of the configured
// substrings and records every command it executed.
type scriptedRunner struct {
	failOn   []string
	executed []string
}

func (s *scriptedRunner) Run(_ context.Context, _ string, command string) (CommandResult, error) {
	s.executed = append(s.executed, command)
	for _, f := range s.failOn {
		if strings.Contains(command, f) {
			return CommandResult{Output: "boom", ExitCode: 1}, fmt.Errorf("exit status 1")
		}
	}
	return CommandResult{Output: "ok", ExitCode: 0}, nil
}

func testPlan() Plan {
	return Plan{
		Steps: []domain.StepDefinition{
			{Name: StepSetupRuntime, Command: "setup {version}"},
			{Name: StepRuntimeVersion, Command: "version {version}"},
			{Name: StepInstallDeps, Command: "install deps"},
			{Name: StepFormatCheck, Command: "format {source_dir}"},
			{Name: StepTest, Command: "run-tests"},
		},
		CellTimeout: time.Minute,
		SourceDir:   "src",
	}
}

func testCell() domain.MatrixCell {
	return domain.MatrixCell{OS: "ubuntu-latest", RuntimeVersion: "3.9"}
}

func newTestCellRunner(commands CommandRunner) *CellRunner {
	return NewCellRunner(zerolog.Nop(),
		WithCommandRunner(commands),
		WithProvisioner(&LocalProvisioner{}),
	)
}

func TestCellRunner_AllStepsPass(t *testing.T) {
	commands := &scriptedRunner{}
	cr := newTestCellRunner(commands)

	result, err := cr.RunCell(context.Background(), testCell(), testPlan())
	require.NoError(t, err)

	assert.Equal(t, constants.CellStatusPassed, result.Status)
	require.Len(t, result.Steps, 5)
	for _, s := range result.Steps {
		assert.Equal(t, constants.StepStatusSuccess, s.Status)
	}
	assert.Len(t, commands.executed, 5)
	assert.Equal(t, "setup 3.9", commands.executed[0])
}

func TestCellRunner_FormatFailureSkipsTests(t *testing.T) {
	commands := &scriptedRunner{failOn: []string{"format"}}
	cr := newTestCellRunner(commands)

	result, err := cr.RunCell(context.Background(), testCell(), testPlan())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, latticeerrors.ErrFormatCheck))

	assert.Equal(t, constants.CellStatusFailed, result.Status)
	assert.Equal(t, StepFormatCheck, result.FailedStep)

	// The test suite step never ran.
	require.Len(t, result.Steps, 5)
	assert.Equal(t, constants.StepStatusFailed, result.Steps[3].Status)
	assert.Equal(t, constants.StepStatusSkipped, result.Steps[4].Status)
	assert.Len(t, commands.executed, 4)
}

func TestCellRunner_FailureClassification(t *testing.T) {
	tests := []struct {
		name     string
		failOn   string
		sentinel error
	}{
		{"setup failure is provisioning", "setup", latticeerrors.ErrProvision},
		{"version print failure is provisioning", "version", latticeerrors.ErrProvision},
		{"install failure", "install", latticeerrors.ErrInstallFailed},
		{"format failure", "format", latticeerrors.ErrFormatCheck},
		{"test failure", "run-tests", latticeerrors.ErrTestsFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := newTestCellRunner(&scriptedRunner{failOn: []string{tt.failOn}})

			result, err := cr.RunCell(context.Background(), testCell(), testPlan())
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.sentinel), "want %v, got %v", tt.sentinel, err)
			assert.Equal(t, constants.CellStatusFailed, result.Status)
		})
	}
}

func TestCellRunner_ContinueOnError(t *testing.T) {
	plan := testPlan()
	plan.Steps[2].ContinueOnError = true

	commands := &scriptedRunner{failOn: []string{"install"}}
	cr := newTestCellRunner(commands)

	result, err := cr.RunCell(context.Background(), testCell(), plan)
	require.NoError(t, err)

	assert.Equal(t, constants.CellStatusPassed, result.Status)
	assert.Equal(t, constants.StepStatusFailed, result.Steps[2].Status)
	assert.Len(t, commands.executed, 5, "remaining steps still ran")
}

func TestCellRunner_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cr := newTestCellRunner(&scriptedRunner{})
	result, err := cr.RunCell(ctx, testCell(), testPlan())
	require.Error(t, err)

	assert.Equal(t, constants.CellStatusCanceled, result.Status)
	for _, s := range result.Steps {
		assert.Equal(t, constants.StepStatusSkipped, s.Status)
	}
}

func TestCellRunner_ProvisioningFailure(t *testing.T) {
	cr := NewCellRunner(zerolog.Nop(),
		WithCommandRunner(&scriptedRunner{}),
		WithProvisioner(failingProvisioner{}),
	)

	result, err := cr.RunCell(context.Background(), testCell(), testPlan())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, latticeerrors.ErrProvision))
	assert.Equal(t, constants.CellStatusFailed, result.Status)
}

// failingProvisioner always refuses to provision.
type failingProvisioner struct{}

func (failingProvisioner) Provision(context.Context, domain.MatrixCell) (*Workspace, func(), error) {
	return nil, nil, fmt.Errorf("%w: no capacity", latticeerrors.ErrProvision)
}

func TestCellRunner_TimeoutClassifiedAsTimeout(t *testing.T) {
	plan := testPlan()
	plan.CellTimeout = 20 * time.Millisecond

	cr := NewCellRunner(zerolog.Nop(),
		WithCommandRunner(&sleepyRunner{delay: 200 * time.Millisecond}),
		WithProvisioner(&LocalProvisioner{}),
	)

	result, err := cr.RunCell(context.Background(), testCell(), plan)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, latticeerrors.ErrCellTimeout))
	assert.Equal(t, constants.CellStatusFailed, result.Status)
}

func TestCellRunner_CanceledMidStep(t *testing.T) {
	plan := testPlan()
	plan.CellTimeout = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	cr := NewCellRunner(zerolog.Nop(),
		WithCommandRunner(&sleepyRunner{delay: 5 * time.Second}),
		WithProvisioner(&LocalProvisioner{}),
	)

	result, err := cr.RunCell(ctx, testCell(), plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// An interrupted cell is canceled, never a validation failure.
	assert.Equal(t, constants.CellStatusCanceled, result.Status)
	assert.Empty(t, result.FailedStep)
	assert.Empty(t, result.Error)
	assert.False(t, stderrors.Is(err, latticeerrors.ErrProvision))

	// The interrupted step and everything after it never count as run.
	require.Len(t, result.Steps, 5)
	for _, s := range result.Steps[1:] {
		assert.Equal(t, constants.StepStatusSkipped, s.Status)
	}
}

// sleepyRunner blocks until the context is done or the delay elapses.
type sleepyRunner struct {
	delay time.Duration
}

func (s *sleepyRunner) Run(ctx context.Context, _ string, _ string) (CommandResult, error) {
	select {
	case <-ctx.Done():
		return CommandResult{ExitCode: -1}, ctx.Err()
	case <-time.After(s.delay):
		return CommandResult{ExitCode: 0}, nil
	}
}

// echoingRunner implements EchoCommandRunner on top of scriptedRunner.
type echoingRunner struct {
	scriptedRunner
	echoed int
}

func (e *echoingRunner) RunWithEcho(ctx context.Context, workDir, command string, echo io.Writer) (CommandResult, error) {
	e.echoed++
	result, err := e.Run(ctx, workDir, command)
	_, _ = echo.Write([]byte(result.Output))
	return result, err
}

func TestCellRunner_EchoStreamsOutput(t *testing.T) {
	commands := &echoingRunner{}
	var echoed strings.Builder

	cr := NewCellRunner(zerolog.Nop(),
		WithCommandRunner(commands),
		WithProvisioner(&LocalProvisioner{}),
		WithEcho(&echoed),
	)

	result, err := cr.RunCell(context.Background(), testCell(), testPlan())
	require.NoError(t, err)

	assert.Equal(t, constants.CellStatusPassed, result.Status)
	assert.Equal(t, 5, commands.echoed, "every step streamed through the echo path")
	assert.Contains(t, echoed.String(), "ok")
}

func TestCellRunner_EchoIgnoredWithoutSupport(t *testing.T) {
	commands := &scriptedRunner{}
	var echoed strings.Builder

	cr := NewCellRunner(zerolog.Nop(),
		WithCommandRunner(commands),
		WithProvisioner(&LocalProvisioner{}),
		WithEcho(&echoed),
	)

	result, err := cr.RunCell(context.Background(), testCell(), testPlan())
	require.NoError(t, err)
	assert.Equal(t, constants.CellStatusPassed, result.Status)
	assert.Empty(t, echoed.String())
}

func TestLocalProvisioner_IsolatedWorkspaces(t *testing.T) {
	p := &LocalProvisioner{BaseDir: t.TempDir()}

	ws1, cleanup1, err := p.Provision(context.Background(), testCell())
	require.NoError(t, err)
	ws2, cleanup2, err := p.Provision(context.Background(), testCell())
	require.NoError(t, err)

	assert.NotEqual(t, ws1.Dir, ws2.Dir, "cells must not share a workspace")
	assert.DirExists(t, ws1.Dir)

	cleanup1()
	cleanup2()
	assert.NoDirExists(t, ws1.Dir, "workspace is discarded after the run")
	assert.NoDirExists(t, ws2.Dir)
}
