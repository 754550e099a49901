package config

import (
	"fmt"
	"path"

	"github.com/latticeci/lattice/internal/errors"
)

// Validate checks the configuration for problems that would make a run
// impossible or ambiguous. It is called after every Load.
func Validate(cfg *Config) error {
	if err := validateTrigger(&cfg.Trigger); err != nil {
		return err
	}
	if err := validateMatrix(&cfg.Matrix); err != nil {
		return err
	}
	return validatePipeline(&cfg.Pipeline)
}

// validateTrigger checks that every path filter is a well-formed glob.
// Branch and path sets may be empty: an empty set disables that filter.
func validateTrigger(t *TriggerConfig) error {
	for _, pattern := range t.Paths {
		if _, err := path.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("%w: bad trigger path pattern %q", errors.ErrInvalidConfig, pattern)
		}
	}
	return nil
}

// validateMatrix checks the environment axes.
// Emptiness and duplicates are also enforced by matrix.Expand; checking here
// surfaces the problem at load time instead of run time.
func validateMatrix(m *MatrixConfig) error {
	if len(m.OperatingSystems) == 0 {
		return fmt.Errorf("%w: matrix.operating_systems is empty", errors.ErrInvalidConfig)
	}
	if len(m.RuntimeVersions) == 0 {
		return fmt.Errorf("%w: matrix.runtime_versions is empty", errors.ErrInvalidConfig)
	}
	if m.MaxParallel < 0 {
		return fmt.Errorf("%w: matrix.max_parallel must not be negative", errors.ErrInvalidConfig)
	}
	return nil
}

// validatePipeline checks the step commands and the cell timeout.
func validatePipeline(p *PipelineConfig) error {
	commands := map[string]string{
		"pipeline.setup_command":   p.SetupCommand,
		"pipeline.version_command": p.VersionCommand,
		"pipeline.install_command": p.InstallCommand,
		"pipeline.format_command":  p.FormatCommand,
		"pipeline.test_command":    p.TestCommand,
	}
	for key, cmd := range commands {
		if cmd == "" {
			return fmt.Errorf("%w: %s is empty", errors.ErrInvalidConfig, key)
		}
	}

	if p.CellTimeout <= 0 {
		return fmt.Errorf("%w: pipeline.cell_timeout must be positive", errors.ErrInvalidConfig)
	}
	return nil
}
