package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticeci/lattice/internal/config"
	"github.com/latticeci/lattice/internal/domain"
	"github.com/latticeci/lattice/internal/trigger"
	"github.com/latticeci/lattice/internal/tui"
)

// AddEvalCommand adds the eval command to the root command.
func AddEvalCommand(root *cobra.Command) {
	root.AddCommand(newEvalCmd())
}

func newEvalCmd() *cobra.Command {
	var eventFl eventFlags

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate an event against the trigger rules without running",
		Long: `Evaluate the event against the configured trigger rules and report
whether a pipeline run would launch, without running anything.

Examples:
  lattice eval --event event.yaml
  lattice eval --event-type push --branch develop --changed-file setup.py
  lattice eval --event-type pull_request --branch master --changed-file docs/index.rst`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(cmd, &eventFl, os.Stdout)
		},
	}

	addEventFlags(cmd, &eventFl)

	return cmd
}

func runEval(cmd *cobra.Command, eventFl *eventFlags, w io.Writer) error {
	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()

	event, err := loadEvent(eventFl)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cmd.Context())
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

	if outputFormat == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"launch": decision.Launch,
			"reason": decision.Reason,
		})
	}

	verdict := "launch"
	if !decision.Launch {
		verdict = "skip"
	}
	fmt.Fprintf(w, "%s: %s\n", tui.StyleHeader.Render(verdict), decision.Reason)
	return nil
}
