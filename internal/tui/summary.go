package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/latticeci/lattice/internal/constants"
	"github.com/latticeci/lattice/internal/domain"
)

// summaryColumns defines the run-summary table layout.
var summaryColumns = []struct { //nolint:gochecknoglobals // Static table layout
	name  string
	width int
}{
	{"CELL", 28},
	{"STATUS", 10},
	{"DURATION", 10},
	{"FAILED STEP", 16},
}

// RenderRunSummary writes a human-readable summary of the run to w:
// one row per cell plus an overall status line. Cell order follows the
// scheduling order, so the table is stable across runs.
func RenderRunSummary(w io.Writer, result *domain.RunResult) {
	if result.Status == constants.RunStatusSkipped {
		fmt.Fprintf(w, "%s %s\n",
			StyleMuted.Render("skipped:"),
			result.Reason)
		return
	}

	writeHeader(w)
	for i := range result.Cells {
		writeCellRow(w, &result.Cells[i])
	}

	style := RunStatusStyle(result.Status)
	fmt.Fprintf(w, "\n%s %s (%d cells, %s)\n",
		style.Render(strings.ToUpper(result.Status.String())),
		statusSummary(result),
		len(result.Cells),
		formatDuration(result.Duration()))
}

// writeHeader writes the table header row.
func writeHeader(w io.Writer) {
	var b strings.Builder
	for i, col := range summaryColumns {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(pad(col.name, col.width))
	}
	fmt.Fprintln(w, StyleHeader.Render(b.String()))
}

// writeCellRow writes one cell's row.
func writeCellRow(w io.Writer, cell *domain.CellResult) {
	status := CellStatusIcon(cell.Status) + " " + cell.Status.String()

	values := []string{
		cell.Cell.Key(),
		status,
		formatDuration(cell.Duration()),
		cell.FailedStep,
	}

	var b strings.Builder
	for i, col := range summaryColumns {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(pad(truncate(values[i], col.width), col.width))
	}

	fmt.Fprintln(w, CellStatusStyle(cell.Status).Render(b.String()))
}

// statusSummary returns the pass/fail/cancel counts for the summary line.
func statusSummary(result *domain.RunResult) string {
	var passed, failed, canceled int
	for _, c := range result.Cells {
		switch c.Status {
		case constants.CellStatusPassed:
			passed++
		case constants.CellStatusFailed:
			failed++
		case constants.CellStatusCanceled:
			canceled++
		case constants.CellStatusPending, constants.CellStatusRunning:
		}
	}

	parts := []string{fmt.Sprintf("%d passed", passed)}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if canceled > 0 {
		parts = append(parts, fmt.Sprintf("%d canceled", canceled))
	}
	return strings.Join(parts, ", ")
}

// pad right-pads s with spaces to width.
func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// truncate shortens s to width with an ellipsis.
func truncate(s string, width int) string {
	if width > 1 && len(s) > width {
		return s[:width-1] + "…"
	}
	return s
}

// formatDuration renders a duration compactly (1.2s, 3m05s).
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
