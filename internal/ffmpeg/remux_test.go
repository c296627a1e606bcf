package ffmpeg_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hbomb79/Tubely/internal/ffmpeg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeOutput(content string) func(args []string) {
	return func(args []string) {
		_ = os.WriteFile(args[len(args)-1], []byte(content), 0o644)
	}
}

func TestRemuxer_Success(t *testing.T) {
	input := filepath.Join(t.TempDir(), "upload.mp4")
	require.NoError(t, os.WriteFile(input, []byte("input"), 0o644))

	var capturedArgs []string
	runner := &mockRunner{onRun: writeOutput("remuxed")}
	runner.On("Run", time.Second, "ffmpeg", mock.Anything).
		Run(func(args mock.Arguments) { capturedArgs = args.Get(2).([]string) }).
		Return(&ffmpeg.CommandResult{}, nil).
		Once()

	output, err := ffmpeg.NewRemuxer(runner, testConfig).Remux(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, input+".processed", output)
	assert.Equal(t, ffmpeg.ProcessedPath(input), output)
	assert.FileExists(t, output)

	require.NotEmpty(t, capturedArgs)
	assert.Equal(t, []string{"-i", input}, capturedArgs[:2])
	assert.Equal(t, output, capturedArgs[len(capturedArgs)-1])
	assert.Subset(t, capturedArgs, []string{"-movflags", "faststart", "-c:v", "copy", "-c:a", "copy", "-f", "mp4"})
	runner.AssertExpectations(t)
}

// assertFlag asserts that flag appears in args immediately followed by value.
func assertFlag(t *testing.T, args []string, flag string, value string) {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return
		}
	}

	assert.Failf(t, "flag not found", "expected %s %s in %v", flag, value, args)
}

func TestRemuxer_CopiesEveryStream(t *testing.T) {
	input := filepath.Join(t.TempDir(), "upload.mp4")
	require.NoError(t, os.WriteFile(input, []byte("input"), 0o644))

	var capturedArgs []string
	runner := &mockRunner{onRun: writeOutput("remuxed")}
	runner.On("Run", time.Second, "ffmpeg", mock.Anything).
		Run(func(args mock.Arguments) { capturedArgs = args.Get(2).([]string) }).
		Return(&ffmpeg.CommandResult{}, nil).
		Once()

	_, err := ffmpeg.NewRemuxer(runner, testConfig).Remux(ctx, input)
	require.NoError(t, err)

	assertFlag(t, capturedArgs, "-map", "0")
	assertFlag(t, capturedArgs, "-c", "copy")
	assertFlag(t, capturedArgs, "-c:v", "copy")
	assertFlag(t, capturedArgs, "-c:a", "copy")
	assertFlag(t, capturedArgs, "-map_metadata", "0")
	assertFlag(t, capturedArgs, "-movflags", "faststart")
	assert.NotContains(t, capturedArgs, "-vn")
	assert.NotContains(t, capturedArgs, "-an")
	runner.AssertExpectations(t)
}

func TestRemuxer_CommandFailure(t *testing.T) {
	input := filepath.Join(t.TempDir(), "upload.mp4")
	runner := &mockRunner{}
	runner.On("Run", time.Second, "ffmpeg", mock.Anything).
		Return(&ffmpeg.CommandResult{ExitCode: 183, Stderr: []byte("moov atom not found")}, errExpected).
		Once()

	_, err := ffmpeg.NewRemuxer(runner, testConfig).Remux(ctx, input)
	var remuxErr *ffmpeg.RemuxError
	require.ErrorAs(t, err, &remuxErr)
	assert.Equal(t, 183, remuxErr.ExitCode)
	assert.Equal(t, "moov atom not found", remuxErr.Output)
	assert.ErrorIs(t, err, errExpected)
}

func TestRemuxer_CommandDidNotStart(t *testing.T) {
	runner := &mockRunner{}
	runner.On("Run", time.Second, "ffmpeg", mock.Anything).Return(nil, errExpected).Once()

	_, err := ffmpeg.NewRemuxer(runner, testConfig).Remux(ctx, "/does/not/exist.mp4")
	var remuxErr *ffmpeg.RemuxError
	require.ErrorAs(t, err, &remuxErr)
	assert.Equal(t, -1, remuxErr.ExitCode)
}

func TestRemuxer_SuccessWithoutOutput(t *testing.T) {
	tests := []struct {
		name  string
		onRun func([]string)
	}{
		{"missing output", nil},
		{"empty output", writeOutput("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := filepath.Join(t.TempDir(), "upload.mp4")
			runner := &mockRunner{onRun: tt.onRun}
			runner.On("Run", time.Second, "ffmpeg", mock.Anything).Return(&ffmpeg.CommandResult{}, nil).Once()

			_, err := ffmpeg.NewRemuxer(runner, testConfig).Remux(ctx, input)
			var remuxErr *ffmpeg.RemuxError
			require.ErrorAs(t, err, &remuxErr)
			assert.Equal(t, 0, remuxErr.ExitCode)
		})
	}
}
