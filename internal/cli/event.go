package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/latticeci/lattice/internal/domain"
	"github.com/latticeci/lattice/internal/errors"
)

// eventFlags holds the per-command flags describing the repository event.
// Events come from a YAML file, from individual flags, or a mix of both
// (flags override file fields).
type eventFlags struct {
	// File is the path to a YAML event payload.
	File string
	// Type overrides the event type.
	Type string
	// Branch overrides the target branch.
	Branch string
	// ChangedFiles overrides the changed file list.
	ChangedFiles []string
}

// addEventFlags registers the event flags on a command.
func addEventFlags(cmd *cobra.Command, flags *eventFlags) {
	cmd.Flags().StringVarP(&flags.File, "event", "e", "", "path to a YAML event payload file")
	cmd.Flags().StringVar(&flags.Type, "event-type", "", "event type (push|pull_request|manual_dispatch)")
	cmd.Flags().StringVar(&flags.Branch, "branch", "", "target branch of the event")
	cmd.Flags().StringSliceVar(&flags.ChangedFiles, "changed-file", nil, "changed file path (repeatable)")
}

// loadEvent builds the event from the flags, reading the payload file first
// when one is given and applying flag overrides on top. The returned event
// is validated.
func loadEvent(flags *eventFlags) (*domain.Event, error) {
	var event domain.Event

	if flags.File != "" {
		data, err := os.ReadFile(flags.File)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidEvent, "failed to read event file %s: %v", flags.File, err)
		}
		if err := yaml.Unmarshal(data, &event); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidEvent, "failed to parse event file %s: %v", flags.File, err)
		}
	}

	if flags.Type != "" {
		event.Type = domain.EventType(flags.Type)
	}
	if flags.Branch != "" {
		event.Branch = flags.Branch
	}
	if len(flags.ChangedFiles) > 0 {
		event.ChangedFiles = flags.ChangedFiles
	}

	if event.Type == "" {
		return nil, fmt.Errorf("%w: no event given (use --event or --event-type)", errors.ErrInvalidEvent)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	return &event, nil
}
