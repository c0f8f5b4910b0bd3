package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunner_ExitCodes(t *testing.T) {
	runner := NewShellRunner()

	code, err := runner.Run(context.Background(), Job{Command: "exit 0"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = runner.Run(context.Background(), Job{Command: "exit 3"})
	require.NoError(t, err, "a non-zero exit is a result, not an error")
	assert.Equal(t, 3, code)
}

func TestShellLauncher_PollReportsExit(t *testing.T) {
	launcher := NewShellLauncher()

	h, err := launcher.Launch(context.Background(), Job{Command: "exit 5"})
	require.NoError(t, err)

	deadline := time.Now().Add(5 * time.Second)
	for {
		done, code := h.Poll()
		if done {
			assert.Equal(t, 5, code)
			return
		}
		require.True(t, time.Now().Before(deadline), "process never reported completion")
		time.Sleep(5 * time.Millisecond)
	}
}
