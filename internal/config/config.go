// Package config provides configuration management for lattice with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (bound by the cli package)
//  2. Environment variables (LATTICE_* prefix)
//  3. Project config (.lattice/config.yaml)
//  4. Global config (~/.lattice/config.yaml)
//  5. Built-in defaults
//
// Each higher level overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for lattice.
type Config struct {
	// Trigger gates whether an incoming event launches the pipeline.
	Trigger TriggerConfig `yaml:"trigger" mapstructure:"trigger"`

	// Matrix defines the environment matrix and its scheduling policy.
	Matrix MatrixConfig `yaml:"matrix" mapstructure:"matrix"`

	// Pipeline defines the step commands each matrix cell executes.
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
}

// TriggerConfig holds the branch and path filters.
type TriggerConfig struct {
	// Branches is the set of branch names push/pull_request events must target.
	// Default: master, develop
	Branches []string `yaml:"branches" mapstructure:"branches"`

	// Paths is the set of glob patterns at least one changed file must match.
	// Default: *.py, *.yml, *.yaml
	Paths []string `yaml:"paths" mapstructure:"paths"`
}

// MatrixConfig holds the environment axes and scheduling policy.
type MatrixConfig struct {
	// OperatingSystems is the OS axis of the matrix.
	// Default: ubuntu-latest, macos-latest, windows-latest
	OperatingSystems []string `yaml:"operating_systems" mapstructure:"operating_systems"`

	// RuntimeVersions is the language-version axis of the matrix.
	// Default: 3.6, 3.7, 3.8, 3.9
	RuntimeVersions []string `yaml:"runtime_versions" mapstructure:"runtime_versions"`

	// FailFast cancels all in-flight and queued cells when any cell fails.
	// This is an explicit policy, not a default: it ships disabled.
	FailFast bool `yaml:"fail_fast" mapstructure:"fail_fast"`

	// MaxParallel caps how many cells run concurrently.
	// Zero means no limit (every cell gets its own goroutine immediately).
	MaxParallel int `yaml:"max_parallel" mapstructure:"max_parallel"`
}

// PipelineConfig holds the step commands executed inside each cell.
//
// Commands may contain the placeholders {version}, {os}, {workdir}, and
// {source_dir}, resolved per cell before execution. All commands run through `sh -c`
// inside the cell's ephemeral workspace; this is the same trust model as
// Makefiles or any CI configuration: whoever can edit the config can
// already run arbitrary commands.
type PipelineConfig struct {
	// SourceDir is the directory the formatting check runs against.
	// Default: "."
	SourceDir string `yaml:"source_dir" mapstructure:"source_dir"`

	// RequirementsFile is the project's flat dependency manifest.
	// Empty disables the project-dependency half of the install step.
	// Default: requirements.txt
	RequirementsFile string `yaml:"requirements_file" mapstructure:"requirements_file"`

	// Tooling lists the auxiliary packages installed before the project
	// dependencies (formatter, static-checker, test-runner).
	// Default: flake8, black, pytest
	Tooling []string `yaml:"tooling" mapstructure:"tooling"`

	// SetupCommand provisions the runtime for the cell's version.
	// Default: "python{version} -m venv {workdir}/.venv"
	SetupCommand string `yaml:"setup_command" mapstructure:"setup_command"`

	// VersionCommand prints the resolved runtime version (diagnostic step;
	// failure is fatal to the cell).
	// Default: "python{version} --version"
	VersionCommand string `yaml:"version_command" mapstructure:"version_command"`

	// InstallCommand installs packages; the tooling list or
	// "-r <requirements file>" is appended as a suffix.
	// Default: "python{version} -m pip install"
	InstallCommand string `yaml:"install_command" mapstructure:"install_command"`

	// FormatCommand is the formatting-consistency check. The {source_dir}
	// placeholder resolves to SourceDir.
	// Default: "black --check {source_dir}"
	FormatCommand string `yaml:"format_command" mapstructure:"format_command"`

	// TestCommand runs the project's test suite.
	// Default: "pytest"
	TestCommand string `yaml:"test_command" mapstructure:"test_command"`

	// CellTimeout is the safety limit for one matrix cell. The source policy
	// defines no timeout; lattice enforces one so a hung step cannot wedge
	// the run. Default: 30m
	CellTimeout time.Duration `yaml:"cell_timeout" mapstructure:"cell_timeout"`
}
