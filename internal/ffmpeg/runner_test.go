package ffmpeg_test

import (
	"testing"
	"time"

	"github.com/hbomb79/Tubely/internal/ffmpeg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_CapturesOutput(t *testing.T) {
	result, err := ffmpeg.NewRunner().Run(ctx, time.Second, "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "out\n", string(result.Stdout))
	assert.Equal(t, "err\n", string(result.Stderr))
	assert.Equal(t, "err", result.Diagnostic())
}

func TestRunner_NonZeroExit(t *testing.T) {
	result, err := ffmpeg.NewRunner().Run(ctx, time.Second, "sh", "-c", "echo broken; exit 3")
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.TimedOut)
	assert.Equal(t, "broken", result.Diagnostic())
}

func TestRunner_Timeout(t *testing.T) {
	result, err := ffmpeg.NewRunner().Run(ctx, 50*time.Millisecond, "sleep", "5")
	assert.ErrorIs(t, err, ffmpeg.ErrCommandTimeout)
	require.NotNil(t, result)
	assert.True(t, result.TimedOut)
}

func TestRunner_MissingBinary(t *testing.T) {
	result, err := ffmpeg.NewRunner().Run(ctx, time.Second, "/definitely/not/a/binary")
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, -1, result.ExitCode)
}

func TestCommandResult_NilDiagnostic(t *testing.T) {
	var result *ffmpeg.CommandResult
	assert.Equal(t, "", result.Diagnostic())
}
