package runner

import (
	"strings"
	"time"

	"github.com/latticeci/lattice/internal/config"
	"github.com/latticeci/lattice/internal/domain"
)

// Canonical step names. The cell sequencer maps these to error categories,
// so renaming one changes how its failure is classified.
const (
	// StepSetupRuntime provisions the runtime for the cell's version.
	StepSetupRuntime = "setup-runtime"

	// StepRuntimeVersion prints the resolved runtime version. Diagnostic,
	// but a failure here is fatal to the cell.
	StepRuntimeVersion = "runtime-version"

	// StepInstallDeps installs the tooling packages and the project's
	// dependency manifest.
	StepInstallDeps = "install-deps"

	// StepFormatCheck runs the formatting-consistency check.
	StepFormatCheck = "format-check"

	// StepTest runs the project's test suite.
	StepTest = "test"
)

// Plan is the fully resolved execution plan for one triggered run: the step
// sequence every cell executes plus the scheduling policy.
type Plan struct {
	// Steps is the ordered step sequence, identical for every cell.
	Steps []domain.StepDefinition

	// FailFast cancels all sibling cells on the first cell failure.
	FailFast bool

	// MaxParallel caps concurrent cells; zero means unlimited.
	MaxParallel int

	// CellTimeout bounds one cell's total execution.
	CellTimeout time.Duration

	// ProjectDir is the checkout being validated. Step commands run with
	// this as their working directory.
	ProjectDir string

	// SourceDir resolves the {source_dir} placeholder, relative to ProjectDir.
	SourceDir string
}

// NewPlan resolves the configuration into an execution plan.
//
// The step sequence mirrors the source policy: set up the runtime, print its
// version, install tooling plus project dependencies, check formatting, run
// the tests. A lint step is deliberately absent, matching the observed
// behavior of the policy this replaces.
func NewPlan(cfg *config.Config, projectDir string) Plan {
	p := cfg.Pipeline

	install := p.InstallCommand + " " + strings.Join(p.Tooling, " ")
	if p.RequirementsFile != "" {
		install += " && " + p.InstallCommand + " -r " + p.RequirementsFile
	}

	steps := []domain.StepDefinition{
		{Name: StepSetupRuntime, Command: p.SetupCommand},
		{Name: StepRuntimeVersion, Command: p.VersionCommand},
		{Name: StepInstallDeps, Command: install},
		{Name: StepFormatCheck, Command: p.FormatCommand},
		{Name: StepTest, Command: p.TestCommand},
	}

	return Plan{
		Steps:       steps,
		FailFast:    cfg.Matrix.FailFast,
		MaxParallel: cfg.Matrix.MaxParallel,
		CellTimeout: p.CellTimeout,
		ProjectDir:  projectDir,
		SourceDir:   p.SourceDir,
	}
}

// renderCommand resolves the per-cell placeholders in a step command.
func renderCommand(command string, cell domain.MatrixCell, workdir, sourceDir string) string {
	r := strings.NewReplacer(
		"{version}", cell.RuntimeVersion,
		"{os}", cell.OS,
		"{workdir}", workdir,
		"{source_dir}", sourceDir,
	)
	return r.Replace(command)
}
