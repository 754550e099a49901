package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/latticeci/lattice/internal/constants"
	"github.com/latticeci/lattice/internal/errors"
)

// newViperInstance creates a new Viper instance with standard lattice settings.
// This includes the environment variable prefix (LATTICE_), key replacer,
// and built-in defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// viperDecoderOption returns the decode hooks used when unmarshaling config.
// Durations may be written as "30m" and string slices as comma-separated
// values in environment variables.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// isConfigNotFoundError returns true if the error is a viper config file
// not found error. Missing config files are expected, not fatal.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (LATTICE_* prefix)
//  2. Project config (.lattice/config.yaml)
//  3. Global config (~/.lattice/config.yaml)
//  4. Built-in defaults
//
// The function returns an error only for actual configuration problems,
// not for missing config files (which are expected in many scenarios).
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	// Global config first (lower precedence), then project config merging
	// over it.
	if err := mergeConfigFile(v, globalConfigPath()); err != nil {
		return nil, errors.Wrap(err, "failed to read global config file")
	}
	if err := mergeConfigFile(v, projectConfigPath()); err != nil {
		return nil, errors.Wrap(err, "failed to read project config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Strs("trigger.branches", cfg.Trigger.Branches).
		Strs("matrix.operating_systems", cfg.Matrix.OperatingSystems).
		Strs("matrix.runtime_versions", cfg.Matrix.RuntimeVersions).
		Bool("matrix.fail_fast", cfg.Matrix.FailFast).
		Dur("pipeline.cell_timeout", cfg.Pipeline.CellTimeout).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// mergeConfigFile merges the config file at path into v.
// A missing file or empty path is skipped silently.
func mergeConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return err
	}
	return nil
}

// globalConfigPath returns the global config file path (~/.lattice/config.yaml),
// honoring the LATTICE_HOME override. Empty when the home directory is unknown.
func globalConfigPath() string {
	home, err := LatticeHome()
	if err != nil {
		return ""
	}
	return filepath.Join(home, constants.ConfigFileName)
}

// projectConfigPath returns the project config file path (.lattice/config.yaml)
// relative to the current working directory.
func projectConfigPath() string {
	return filepath.Join(constants.LatticeHome, constants.ConfigFileName)
}

// LatticeHome returns the lattice home directory path.
// If the LATTICE_HOME environment variable is set, it is used directly.
// Otherwise it defaults to ~/.lattice.
func LatticeHome() (string, error) {
	if home := os.Getenv(constants.HomeEnvVar); home != "" {
		return home, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(home, constants.LatticeHome), nil
}
