package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/latticeci/lattice/internal/errors"
	"github.com/latticeci/lattice/internal/logging"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
// Access is protected by globalLoggerMu for thread safety.
var (
	globalLogger   zerolog.Logger  //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex    //nolint:gochecknoglobals // Protects globalLogger
	globalMasker   *logging.Masker //nolint:gochecknoglobals // Shared with the logger writers
)

// GetLogger returns the initialized logger for use by subcommands.
//
// IMPORTANT: This function MUST only be called after the root command's
// PersistentPreRunE has executed. Calling it before initialization will
// return a zero-value logger that discards all log output.
//
// This function is safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// GetMasker returns the shared secret masker. Values added to it are
// redacted from every logger destination.
func GetMasker() *logging.Masker {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalMasker
}

// newRootCmd creates and returns the root command for the lattice CLI.
// This function-based approach avoids package-level globals, making the
// code more testable and avoiding gochecknoglobals linter warnings.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Lattice - trigger-and-matrix CI pipeline orchestrator",
		Long: `Lattice evaluates repository events against trigger rules, expands a
build matrix across operating systems and runtime versions, and runs an
identical validation pipeline in every matrix cell.

Features:
  • Branch and path-glob trigger filtering with manual-dispatch bypass
  • Cartesian matrix expansion (OS x runtime version)
  • Parallel, isolated cell execution with optional fail-fast
  • Per-cell timeouts and step-level failure classification`,
		Version: formatVersion(info),
		// Run displays help when the root command is invoked without subcommands.
		// This ensures PersistentPreRunE is called for flag validation.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalMasker = logging.NewMasker()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet, globalMasker)
			globalLoggerMu.Unlock()

			return nil
		},
		// SilenceUsage prevents printing usage on error
		// (we handle our own error messages)
		SilenceUsage: true,
	}

	// Add global flags
	AddGlobalFlags(cmd, flags)

	// Add subcommands
	AddRunCommand(cmd)
	AddEvalCommand(cmd)
	AddMatrixCommand(cmd)
	AddVersionCommand(cmd, info)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	defer CloseLogFile()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	return cmd.ExecuteContext(ctx)
}
