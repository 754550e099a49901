package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/latticeci/lattice/internal/config"
	"github.com/latticeci/lattice/internal/constants"
	"github.com/latticeci/lattice/internal/ctxutil"
	"github.com/latticeci/lattice/internal/domain"
	"github.com/latticeci/lattice/internal/errors"
	"github.com/latticeci/lattice/internal/flock"
	"github.com/latticeci/lattice/internal/matrix"
	"github.com/latticeci/lattice/internal/runner"
	"github.com/latticeci/lattice/internal/trigger"
	"github.com/latticeci/lattice/internal/tui"
)

// AddRunCommand adds the run command to the root command.
func AddRunCommand(root *cobra.Command) {
	root.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	var eventFl eventFlags
	var projectDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate the trigger and run the full matrix pipeline",
		Long: `Evaluate the event against the trigger rules and, when they match,
expand the build matrix and run the pipeline in every cell.

A non-matching event skips the run and exits 0. A failed or canceled
run exits 1.

Examples:
  lattice run --event event.yaml
  lattice run --event-type manual_dispatch
  lattice run --event-type push --branch master --changed-file dnplab/core.py
  lattice run --event event.yaml --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd.Context(), cmd, &eventFl, projectDir, os.Stdout)
		},
	}

	addEventFlags(cmd, &eventFl)
	cmd.Flags().StringVar(&projectDir, "project-dir", "", "project directory pipeline steps run in (default: cell workspace)")

	return cmd
}

func runPipeline(ctx context.Context, cmd *cobra.Command, eventFl *eventFlags, projectDir string, w io.Writer) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()

	event, err := loadEvent(eventFl)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	evaluator := trigger.NewEvaluator(domain.TriggerRules{
		Branches: cfg.Trigger.Branches,
		Paths:    cfg.Trigger.Paths,
	}, logger)

	decision, err := evaluator.Evaluate(event)
	if err != nil {
		return err
	}

	cellOpts := []runner.CellRunnerOption{runner.WithMasker(GetMasker())}
	if verboseFlag(cmd) {
		cellOpts = append(cellOpts, runner.WithEcho(os.Stdout))
	}
	cellRunner := runner.NewCellRunner(logger, cellOpts...)
	orch := runner.NewOrchestrator(cellRunner, logger)

	// A skipped run is a no-op, not an error.
	if !decision.Launch {
		return writeRunResult(w, outputFormat, orch.SkippedRun(decision.Reason))
	}

	cells, err := matrix.Expand(cfg.Matrix.OperatingSystems, cfg.Matrix.RuntimeVersions)
	if err != nil {
		return err
	}

	// One run at a time per lattice home; concurrent runs would interleave
	// logs and run state.
	lock, err := acquireRunLock()
	if err != nil {
		return err
	}
	defer lock.Release()

	plan := runner.NewPlan(cfg, projectDir)
	result := orch.Run(ctx, cells, plan)
	saveRunRecord(logger, result)

	if err := writeRunResult(w, outputFormat, result); err != nil {
		return err
	}

	if !result.Passed() {
		return fmt.Errorf("%w: %s", errors.ErrRunFailed, result.Reason)
	}
	return nil
}

// verboseFlag reports whether --verbose was set, tolerating commands that
// never registered it.
func verboseFlag(cmd *cobra.Command) bool {
	flag := cmd.Flag("verbose")
	return flag != nil && flag.Value.String() == "true"
}

// saveRunRecord persists the run result as JSON under ~/.lattice/runs.
// Persistence is best effort; a failure is logged, never fatal to the run.
func saveRunRecord(logger zerolog.Logger, result *domain.RunResult) {
	home, err := config.LatticeHome()
	if err != nil {
		logger.Warn().Err(err).Msg("run record not saved")
		return
	}

	runsDir := filepath.Join(home, constants.RunsDir)
	if err := os.MkdirAll(runsDir, 0o750); err != nil {
		logger.Warn().Err(err).Msg("run record not saved")
		return
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Warn().Err(err).Msg("run record not saved")
		return
	}

	path := filepath.Join(runsDir, result.RunID+".json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		logger.Warn().Err(err).Msg("run record not saved")
		return
	}

	if err := saveCellLogs(filepath.Join(runsDir, result.RunID), result); err != nil {
		logger.Warn().Err(err).Msg("cell logs not saved")
	}
	logger.Debug().Str("path", path).Msg("run record saved")
}

// saveCellLogs writes one log file per cell with the captured step output.
func saveCellLogs(dir string, result *domain.RunResult) error {
	if len(result.Cells) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	for _, cell := range result.Cells {
		var b strings.Builder
		for _, step := range cell.Steps {
			fmt.Fprintf(&b, "== %s (%s, exit %d)\n", step.StepName, step.Status, step.ExitCode)
			if step.Output != "" {
				b.WriteString(step.Output)
				if !strings.HasSuffix(step.Output, "\n") {
					b.WriteString("\n")
				}
			}
		}

		name := cell.Cell.OS + "-" + cell.Cell.RuntimeVersion + ".log"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o600); err != nil {
			return err
		}
	}
	return nil
}

// acquireRunLock takes the exclusive run lock under the lattice home.
func acquireRunLock() (*flock.Lock, error) {
	home, err := config.LatticeHome()
	if err != nil {
		return nil, err
	}
	return flock.Acquire(filepath.Join(home, constants.RunLockFileName))
}

// writeRunResult renders the run result in the requested output format.
func writeRunResult(w io.Writer, format string, result *domain.RunResult) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	tui.RenderRunSummary(w, result)
	return nil
}
