package config

import (
	"github.com/spf13/viper"

	"github.com/latticeci/lattice/internal/constants"
)

// Default values mirroring the original CI policy: push/PR to master and
// develop gated on Python and YAML changes, three operating systems by four
// interpreter versions, black for formatting and pytest for tests.
const (
	// DefaultSourceDir is the directory the format check runs against.
	DefaultSourceDir = "."

	// DefaultRequirementsFile is the project dependency manifest.
	DefaultRequirementsFile = "requirements.txt"

	// DefaultSetupCommand provisions the cell's interpreter environment.
	DefaultSetupCommand = "python{version} -m venv {workdir}/.venv"

	// DefaultVersionCommand prints the resolved interpreter version.
	DefaultVersionCommand = "python{version} --version"

	// DefaultInstallCommand installs packages; suffixed per install phase.
	DefaultInstallCommand = "python{version} -m pip install"

	// DefaultFormatCommand is the formatting-consistency check.
	DefaultFormatCommand = "black --check {source_dir}"

	// DefaultTestCommand runs the test suite.
	DefaultTestCommand = "pytest"
)

// setDefaults registers built-in defaults on the viper instance.
// These are the lowest-precedence layer; any config file, environment
// variable, or flag overrides them.
func setDefaults(v *viper.Viper) {
	// Trigger
	v.SetDefault("trigger.branches", []string{"master", "develop"})
	v.SetDefault("trigger.paths", []string{"*.py", "*.yml", "*.yaml"})

	// Matrix
	v.SetDefault("matrix.operating_systems", []string{"ubuntu-latest", "macos-latest", "windows-latest"})
	v.SetDefault("matrix.runtime_versions", []string{"3.6", "3.7", "3.8", "3.9"})
	v.SetDefault("matrix.fail_fast", false)
	v.SetDefault("matrix.max_parallel", 0)

	// Pipeline
	v.SetDefault("pipeline.source_dir", DefaultSourceDir)
	v.SetDefault("pipeline.requirements_file", DefaultRequirementsFile)
	v.SetDefault("pipeline.tooling", []string{"flake8", "black", "pytest"})
	v.SetDefault("pipeline.setup_command", DefaultSetupCommand)
	v.SetDefault("pipeline.version_command", DefaultVersionCommand)
	v.SetDefault("pipeline.install_command", DefaultInstallCommand)
	v.SetDefault("pipeline.format_command", DefaultFormatCommand)
	v.SetDefault("pipeline.test_command", DefaultTestCommand)
	v.SetDefault("pipeline.cell_timeout", constants.DefaultCellTimeout)
}
