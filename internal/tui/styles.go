// Package tui provides styled terminal output for lattice run summaries.
//
// All colors use AdaptiveColor for light/dark terminal support. Triple
// redundancy is maintained for status displays: icon + color + text, so a
// status is readable even when color is stripped. The NO_COLOR environment
// variable and TERM=dumb disable styling entirely.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/latticeci/lattice/internal/constants"
)

//nolint:gochecknoglobals // Intentional package-level constants for styling API
var (
	// ColorSuccess is green, used for passed cells and runs.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorError is red, used for failed cells and runs.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorWarning is yellow, used for canceled cells.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorMuted is gray, used for skipped runs and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleSuccess renders passed statuses.
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)

	// StyleError renders failed statuses.
	StyleError = lipgloss.NewStyle().Foreground(ColorError)

	// StyleWarning renders canceled statuses.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	// StyleMuted renders skipped statuses and secondary text.
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)

	// StyleHeader renders table headers.
	StyleHeader = lipgloss.NewStyle().Bold(true)
)

// CheckNoColor disables lipgloss styling when NO_COLOR is set or the
// terminal is dumb. Call once at the start of output-producing commands.
func CheckNoColor() {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// CellStatusIcon returns the icon for a cell status.
func CellStatusIcon(status constants.CellStatus) string {
	switch status {
	case constants.CellStatusPassed:
		return "✓"
	case constants.CellStatusFailed:
		return "✗"
	case constants.CellStatusCanceled:
		return "⊘"
	case constants.CellStatusRunning:
		return "●"
	case constants.CellStatusPending:
		return "○"
	}
	return "?"
}

// CellStatusStyle returns the style for a cell status.
func CellStatusStyle(status constants.CellStatus) lipgloss.Style {
	switch status {
	case constants.CellStatusPassed:
		return StyleSuccess
	case constants.CellStatusFailed:
		return StyleError
	case constants.CellStatusCanceled:
		return StyleWarning
	case constants.CellStatusPending, constants.CellStatusRunning:
		return StyleMuted
	}
	return StyleMuted
}

// RunStatusStyle returns the style for an overall run status.
func RunStatusStyle(status constants.RunStatus) lipgloss.Style {
	switch status {
	case constants.RunStatusPassed:
		return StyleSuccess
	case constants.RunStatusFailed:
		return StyleError
	case constants.RunStatusCanceled:
		return StyleWarning
	case constants.RunStatusSkipped:
		return StyleMuted
	}
	return StyleMuted
}
