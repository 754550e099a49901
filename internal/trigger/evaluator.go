// Package trigger implements the trigger-and-filter evaluator.
//
// Given a repository event (type, branch, changed-file list) and a set of
// trigger rules, the evaluator returns a launch decision. Evaluation is
// stateless: a non-matching event produces a no-op decision, never an error.
package trigger

import (
	"fmt"
	"path"

	"github.com/rs/zerolog"

	"github.com/latticeci/lattice/internal/domain"
	latticeerrors "github.com/latticeci/lattice/internal/errors"
)

// Decision is the outcome of evaluating an event against the trigger rules.
type Decision struct {
	// Launch reports whether the pipeline should run.
	Launch bool

	// Reason is a human-readable explanation of the decision, surfaced by
	// `lattice eval` and logged on every evaluation.
	Reason string
}

// Evaluator decides whether an incoming repository event launches the pipeline.
type Evaluator struct {
	rules  domain.TriggerRules
	logger zerolog.Logger
}

// NewEvaluator creates an evaluator for the given rules.
func NewEvaluator(rules domain.TriggerRules, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		rules:  rules,
		logger: logger,
	}
}

// Evaluate returns the launch decision for the event.
//
// The pipeline launches when:
//   - the event is a manual dispatch (branch and path filters bypassed), or
//   - the event is a push or pull request targeting a configured branch AND
//     at least one changed file matches a configured path pattern.
//
// An error is returned only for malformed events or malformed glob patterns;
// a non-matching event yields Launch=false with a nil error.
func (e *Evaluator) Evaluate(event *domain.Event) (Decision, error) {
	if err := event.Validate(); err != nil {
		return Decision{}, err
	}

	log := e.logger.With().
		Str("event_type", event.Type.String()).
		Str("branch", event.Branch).
		Int("changed_files", len(event.ChangedFiles)).
		Logger()

	if event.Type == domain.EventManualDispatch {
		log.Info().Msg("manual dispatch, launching unconditionally")
		return Decision{Launch: true, Reason: "manual dispatch bypasses branch and path filters"}, nil
	}

	if !e.branchMatches(event.Branch) {
		reason := fmt.Sprintf("branch %q not in %v", event.Branch, e.rules.Branches)
		log.Debug().Msg("branch filter did not match")
		return Decision{Launch: false, Reason: reason}, nil
	}

	matched, file, err := e.anyPathMatches(event.ChangedFiles)
	if err != nil {
		return Decision{}, err
	}
	if !matched {
		reason := fmt.Sprintf("no changed file matches %v", e.rules.Paths)
		log.Debug().Msg("path filter did not match")
		return Decision{Launch: false, Reason: reason}, nil
	}

	log.Info().Str("matched_file", file).Msg("trigger matched, launching pipeline")
	return Decision{Launch: true, Reason: fmt.Sprintf("%s matches path filter", file)}, nil
}

// branchMatches reports whether the event branch is in the configured set.
// An empty branch set matches every branch.
func (e *Evaluator) branchMatches(branch string) bool {
	if len(e.rules.Branches) == 0 {
		return true
	}
	for _, b := range e.rules.Branches {
		if b == branch {
			return true
		}
	}
	return false
}

// anyPathMatches reports whether any changed file matches any configured
// pattern, returning the first matching file. An empty pattern set matches
// any non-empty change list.
func (e *Evaluator) anyPathMatches(files []string) (bool, string, error) {
	if len(e.rules.Paths) == 0 {
		return len(files) > 0, firstOrEmpty(files), nil
	}
	for _, file := range files {
		ok, err := e.fileMatches(file)
		if err != nil {
			return false, "", err
		}
		if ok {
			return true, file, nil
		}
	}
	return false, "", nil
}

// fileMatches checks a single file against every configured pattern.
// Patterns are matched against both the full repository-relative path and
// the file's base name, so "*.py" matches files in subdirectories the way
// the original policy intends.
func (e *Evaluator) fileMatches(file string) (bool, error) {
	base := path.Base(file)
	for _, pattern := range e.rules.Paths {
		for _, candidate := range []string{file, base} {
			ok, err := path.Match(pattern, candidate)
			if err != nil {
				return false, fmt.Errorf("%w: bad path pattern %q: %s",
					latticeerrors.ErrInvalidConfig, pattern, err)
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

func firstOrEmpty(files []string) string {
	if len(files) == 0 {
		return ""
	}
	return files[0]
}
