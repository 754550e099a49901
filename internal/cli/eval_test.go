package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEval_ManualDispatchLaunches(t *testing.T) {
	t.Setenv("LATTICE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	cmd := newTestCmd(t, OutputText)

	var buf bytes.Buffer
	err := runEval(cmd, &eventFlags{Type: "manual_dispatch"}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "launch")
}

func TestRunEval_PathFilterSkips(t *testing.T) {
	t.Setenv("LATTICE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	cmd := newTestCmd(t, OutputText)
	eventFl := &eventFlags{
		Type:         "push",
		Branch:       "master",
		ChangedFiles: []string{"docs/index.rst", "README.md"},
	}

	var buf bytes.Buffer
	err := runEval(cmd, eventFl, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "skip")
}

func TestRunEval_JSON(t *testing.T) {
	t.Setenv("LATTICE_HOME", t.TempDir())

	cmd := newTestCmd(t, OutputJSON)
	eventFl := &eventFlags{
		Type:         "pull_request",
		Branch:       "develop",
		ChangedFiles: []string{"dnplab/processing.py"},
	}

	var buf bytes.Buffer
	err := runEval(cmd, eventFl, &buf)
	require.NoError(t, err)

	var decoded struct {
		Launch bool   `json:"launch"`
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.True(t, decoded.Launch)
	assert.Contains(t, decoded.Reason, "dnplab/processing.py")
}
