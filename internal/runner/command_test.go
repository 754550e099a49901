package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunner_Run(t *testing.T) {
	r := &ShellRunner{}
	ctx := context.Background()

	t.Run("captures combined output", func(t *testing.T) {
		result, err := r.Run(ctx, t.TempDir(), "echo out; echo err 1>&2")
		require.NoError(t, err)
		assert.Equal(t, 0, result.ExitCode)
		assert.Contains(t, result.Output, "out")
		assert.Contains(t, result.Output, "err")
	})

	t.Run("reports non-zero exit code", func(t *testing.T) {
		result, err := r.Run(ctx, t.TempDir(), "echo broken; exit 3")
		require.Error(t, err)
		assert.Equal(t, 3, result.ExitCode)
		assert.Contains(t, result.Output, "broken")
	})

	t.Run("runs in the given working directory", func(t *testing.T) {
		dir := t.TempDir()
		result, err := r.Run(ctx, dir, "pwd")
		require.NoError(t, err)
		assert.Contains(t, result.Output, dir)
	})

	t.Run("context cancellation kills the command", func(t *testing.T) {
		cancelCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := r.Run(cancelCtx, t.TempDir(), "sleep 10")
		require.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}
