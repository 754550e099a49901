package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latticeci/lattice/internal/errors"
)

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   bool
	}{
		{"text", true},
		{"json", true},
		{"xml", false},
		{"", false},
		{"TEXT", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsValidOutputFormat(tt.format))
		})
	}
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"invalid output format", errors.ErrInvalidOutputFormat, ExitInvalidInput},
		{"invalid event", fmt.Errorf("context: %w", errors.ErrInvalidEvent), ExitInvalidInput},
		{"invalid config", errors.Wrap(errors.ErrInvalidConfig, "bad glob"), ExitInvalidInput},
		{"run failed", errors.ErrRunFailed, ExitFailure},
		{"generic error", fmt.Errorf("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}
