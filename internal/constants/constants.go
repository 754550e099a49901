// Package constants provides centralized constant values used throughout lattice.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by lattice for organizing data.
const (
	// LatticeHome is the hidden directory name where lattice stores all its data.
	// This directory is created in the user's home directory.
	LatticeHome = ".lattice"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// RunsDir is the directory name where per-run artifacts (cell logs) are stored.
	RunsDir = "runs"

	// ConfigFileName is the name of the project and global configuration file.
	ConfigFileName = "config.yaml"

	// RunLockFileName is the lock file guarding against concurrent runs
	// sharing the same lattice home.
	RunLockFileName = "run.lock"
)

// Log rotation settings for the CLI log file.
const (
	// CLILogFileName is the name of the rotating CLI log file.
	CLILogFileName = "lattice.log"

	// LogMaxSizeMB is the maximum size of a log file before rotation, in megabytes.
	LogMaxSizeMB = 10

	// LogMaxBackups is the maximum number of rotated log files to retain.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of rotated log files, in days.
	LogMaxAgeDays = 30

	// LogCompress controls whether rotated log files are gzip compressed.
	LogCompress = true
)

// Timeout configuration for pipeline execution.
const (
	// DefaultCellTimeout is the safety limit for a single matrix cell.
	// The source policy specifies no timeout; this default exists so a hung
	// step cannot wedge the whole run.
	DefaultCellTimeout = 30 * time.Minute
)

// Environment variable names recognized by lattice.
const (
	// EnvPrefix is the prefix for all lattice environment variables.
	EnvPrefix = "LATTICE"

	// HomeEnvVar overrides the lattice home directory (~/.lattice).
	HomeEnvVar = "LATTICE_HOME"
)
