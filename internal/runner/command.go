// Package runner executes a triggered pipeline run: it schedules matrix cells
// as independent parallel units and drives each cell's step sequence inside an
// isolated ephemeral workspace.
//
// SECURITY NOTE: The commands executed by this package come from the lattice
// configuration files (.lattice/config.yaml or ~/.lattice/config.yaml). These
// are treated as trusted input: anyone who can modify them already has the
// same level of access as a Makefile or CI configuration author. The sh -c
// invocation is intentional so step commands can use pipes and redirects.
package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os/exec"
)

// CommandResult holds the outcome of one executed shell command.
type CommandResult struct {
	// Output is the combined stdout and stderr, interleaved the way a CI
	// log would show it.
	Output string

	// ExitCode is the process exit code. -1 means the process never
	// started or was killed before exiting on its own.
	ExitCode int
}

// CommandRunner defines the interface for executing shell commands.
// This allows tests to inject mock implementations.
type CommandRunner interface {
	// Run executes a shell command in workDir and returns its output.
	Run(ctx context.Context, workDir, command string) (CommandResult, error)
}

// EchoCommandRunner is implemented by command runners that can stream output
// to a writer while capturing it. The cell runner upgrades to this interface
// when an echo writer is configured.
type EchoCommandRunner interface {
	CommandRunner

	// RunWithEcho executes a command, streaming output to echo as it is
	// produced in addition to capturing it.
	RunWithEcho(ctx context.Context, workDir, command string, echo io.Writer) (CommandResult, error)
}

// ShellRunner implements CommandRunner using os/exec and `sh -c`.
type ShellRunner struct{}

// Run executes command through `sh -c` with workDir as the working directory.
// Context cancellation kills the process group via exec.CommandContext.
func (r *ShellRunner) Run(ctx context.Context, workDir, command string) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workDir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	result := CommandResult{Output: buf.String(), ExitCode: 0}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}

	return result, err
}

// RunWithEcho executes a command while streaming output to echo in addition
// to capturing it. Used when the run is attached to a terminal so step output
// appears live.
func (r *ShellRunner) RunWithEcho(ctx context.Context, workDir, command string, echo io.Writer) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workDir

	var buf bytes.Buffer
	out := io.MultiWriter(&buf, echo)
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	result := CommandResult{Output: buf.String(), ExitCode: 0}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}

	return result, err
}

// Ensure ShellRunner implements both runner interfaces.
var (
	_ CommandRunner     = (*ShellRunner)(nil)
	_ EchoCommandRunner = (*ShellRunner)(nil)
)
