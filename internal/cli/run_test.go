package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeci/lattice/internal/constants"
	"github.com/latticeci/lattice/internal/domain"
)

// newTestCmd builds a command carrying the global flags subcommand
// handlers read, without going through the root command.
func newTestCmd(t *testing.T, output string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("output", output, "")
	cmd.SetContext(context.Background())
	return cmd
}

func passedResult() *domain.RunResult {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.RunResult{
		RunID:  "run-json",
		Status: constants.RunStatusPassed,
		Cells: []domain.CellResult{
			{
				Cell:        domain.MatrixCell{OS: "ubuntu-latest", RuntimeVersion: "3.9"},
				Status:      constants.CellStatusPassed,
				StartedAt:   start,
				CompletedAt: start.Add(30 * time.Second),
			},
		},
		StartedAt:   start,
		CompletedAt: start.Add(30 * time.Second),
	}
}

func TestWriteRunResult_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeRunResult(&buf, OutputJSON, passedResult()))

	var decoded domain.RunResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-json", decoded.RunID)
	assert.Equal(t, constants.RunStatusPassed, decoded.Status)
	require.Len(t, decoded.Cells, 1)
	assert.Equal(t, "ubuntu-latest/3.9", decoded.Cells[0].Cell.Key())
}

func TestWriteRunResult_Text(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	require.NoError(t, writeRunResult(&buf, OutputText, passedResult()))

	out := buf.String()
	assert.Contains(t, out, "ubuntu-latest/3.9")
	assert.Contains(t, out, "PASSED")
}

func TestRunPipeline_SkippedEvent(t *testing.T) {
	t.Setenv("LATTICE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	cmd := newTestCmd(t, OutputText)
	eventFl := &eventFlags{Type: "push", Branch: "feature/x"}

	var buf bytes.Buffer
	err := runPipeline(context.Background(), cmd, eventFl, "", &buf)
	require.NoError(t, err, "a skipped run is not an error")
	assert.Contains(t, buf.String(), "skipped:")
	assert.Contains(t, buf.String(), "feature/x")
}

func TestSaveRunRecord(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LATTICE_HOME", home)

	result := passedResult()
	result.Cells[0].Steps = []domain.StepResult{
		{StepName: "format-check", Status: constants.StepStatusSuccess, Output: "all done! ✨"},
	}

	saveRunRecord(zerolog.Nop(), result)

	data, err := os.ReadFile(filepath.Join(home, "runs", "run-json.json"))
	require.NoError(t, err)

	var decoded domain.RunResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-json", decoded.RunID)

	cellLog, err := os.ReadFile(filepath.Join(home, "runs", "run-json", "ubuntu-latest-3.9.log"))
	require.NoError(t, err)
	assert.Contains(t, string(cellLog), "== format-check (success, exit 0)")
	assert.Contains(t, string(cellLog), "all done!")
}

func TestRunPipeline_InvalidEvent(t *testing.T) {
	t.Setenv("LATTICE_HOME", t.TempDir())

	cmd := newTestCmd(t, OutputText)

	var buf bytes.Buffer
	err := runPipeline(context.Background(), cmd, &eventFlags{}, "", &buf)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
