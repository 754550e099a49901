// Package domain defines the core types shared across lattice packages.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import any other internal packages. Keeping domain types
// dependency-free prevents import cycles between the trigger, matrix, and
// runner packages.
package domain

import (
	"fmt"

	latticeerrors "github.com/latticeci/lattice/internal/errors"
)

// EventType identifies the kind of repository event that reached the orchestrator.
type EventType string

// Event type constants. These mirror the event sources the trigger rules
// understand; anything else is rejected as an invalid event.
const (
	// EventPush is a branch push.
	EventPush EventType = "push"

	// EventPullRequest is a pull request open or update targeting a branch.
	EventPullRequest EventType = "pull_request"

	// EventManualDispatch is an operator-initiated run. Manual dispatch
	// bypasses both the branch and the path filters.
	EventManualDispatch EventType = "manual_dispatch"
)

// String returns the string representation of the EventType.
func (t EventType) String() string {
	return string(t)
}

// Valid reports whether the event type is one lattice understands.
func (t EventType) Valid() bool {
	switch t {
	case EventPush, EventPullRequest, EventManualDispatch:
		return true
	}
	return false
}

// Event is a repository event as supplied by the event source.
// Events are evaluated once, statelessly, against the trigger rules.
type Event struct {
	// Type is the event kind (push, pull_request, manual_dispatch).
	Type EventType `yaml:"type" json:"type"`

	// Branch is the target branch of the event. For pull requests this is
	// the base branch, matching how branch filters behave upstream.
	Branch string `yaml:"branch" json:"branch"`

	// ChangedFiles lists repository-relative paths touched by the event.
	// Empty for manual dispatch.
	ChangedFiles []string `yaml:"changed_files" json:"changed_files"`
}

// Validate checks that the event is well-formed.
// Manual dispatch needs no branch; push and pull_request do.
func (e *Event) Validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", latticeerrors.ErrInvalidEvent, e.Type)
	}
	if e.Type != EventManualDispatch && e.Branch == "" {
		return fmt.Errorf("%w: %s event requires a branch", latticeerrors.ErrInvalidEvent, e.Type)
	}
	return nil
}
