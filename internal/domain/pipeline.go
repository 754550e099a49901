package domain

import "fmt"

// TriggerRules gates whether a pipeline run is launched at all.
// An event launches the pipeline when its type is push or pull_request,
// its branch is in Branches, and at least one changed file matches a
// pattern in Paths. Manual dispatch bypasses both filters.
type TriggerRules struct {
	// Branches is the set of branch names the pipeline runs for.
	Branches []string `yaml:"branches" mapstructure:"branches"`

	// Paths is the set of glob patterns a changed file must match.
	// Patterns apply to the file's base name and to the full
	// repository-relative path.
	Paths []string `yaml:"paths" mapstructure:"paths"`
}

// MatrixCell is one concrete (operating system, runtime version) combination,
// scheduled as an independent unit of work. Cells share no mutable state.
type MatrixCell struct {
	// OS is the operating system identifier (e.g. "ubuntu-latest").
	OS string `yaml:"os" json:"os"`

	// RuntimeVersion is the language-version identifier (e.g. "3.9").
	RuntimeVersion string `yaml:"runtime_version" json:"runtime_version"`
}

// Key returns a stable identifier for the cell, unique within a run.
func (c MatrixCell) Key() string {
	return c.OS + "/" + c.RuntimeVersion
}

// String implements fmt.Stringer for logging.
func (c MatrixCell) String() string {
	return c.Key()
}

// StepDefinition is one ordered action within a cell. Steps execute strictly
// sequentially; the first failed required step halts the rest of the cell.
type StepDefinition struct {
	// Name is the human-readable step name (e.g. "format-check").
	Name string `yaml:"name" mapstructure:"name"`

	// Command is the shell command to execute. Commands may contain the
	// placeholders {version}, {os}, {workdir}, and {source_dir},
	// resolved per cell.
	Command string `yaml:"command" mapstructure:"command"`

	// ContinueOnError marks the step as non-required: a failure is recorded
	// but does not halt the remaining steps of the cell.
	ContinueOnError bool `yaml:"continue_on_error" mapstructure:"continue_on_error"`
}

// Validate checks that the step definition is usable.
func (s *StepDefinition) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("step name must not be empty")
	}
	if s.Command == "" {
		return fmt.Errorf("step %q has no command", s.Name)
	}
	return nil
}
