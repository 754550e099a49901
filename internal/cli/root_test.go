package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Help(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Lattice")
	assert.Contains(t, output, "run")
	assert.Contains(t, output, "eval")
	assert.Contains(t, output, "matrix")
	assert.Contains(t, output, "--output")
	assert.Contains(t, output, "--verbose")
	assert.Contains(t, output, "--quiet")
}

func TestRootCmd_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		info           BuildInfo
		expectContains []string
	}{
		{
			name: "full version info",
			info: BuildInfo{
				Version: "1.0.0",
				Commit:  "abc1234",
				Date:    "2026-01-01",
			},
			expectContains: []string{"1.0.0", "abc1234", "2026-01-01"},
		},
		{
			name:           "default dev version",
			info:           BuildInfo{},
			expectContains: []string{"dev", "none", "unknown"},
		},
		{
			name: "partial version info",
			info: BuildInfo{
				Version: "2.0.0-beta",
			},
			expectContains: []string{"2.0.0-beta", "none", "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := formatVersion(tt.info)
			for _, want := range tt.expectContains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	t.Setenv("LATTICE_HOME", t.TempDir())

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"matrix", "--output", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_VerboseQuietMutuallyExclusive(t *testing.T) {
	t.Setenv("LATTICE_HOME", t.TempDir())

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"matrix", "--verbose", "--quiet"})

	err := cmd.Execute()
	require.Error(t, err)
}
