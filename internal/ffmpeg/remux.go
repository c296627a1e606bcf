package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/floostack/transcoder/ffmpeg"
	"github.com/hbomb79/Tubely/pkg/logger"
)

const processedSuffix = ".processed"

var errMissingOutput = errors.New("ffmpeg exited successfully but produced no output")

// Remuxer rewrites media containers for progressive playback by moving
// the index (moov atom) to the front of the file. Streams are copied
// as-is; nothing is re-encoded.
type Remuxer struct {
	runner Runner
	config Config
}

func NewRemuxer(runner Runner, config Config) *Remuxer {
	return &Remuxer{runner: runner, config: config}
}

// ProcessedPath returns the path the remuxed output of inputPath is written to.
func ProcessedPath(inputPath string) string {
	return inputPath + processedSuffix
}

// Remux writes a faststart copy of the input file to ProcessedPath(inputPath)
// and returns that path. The output is verified to exist and be non-empty,
// even when ffmpeg reports success. Any failure is returned as a *RemuxError.
func (remuxer *Remuxer) Remux(ctx context.Context, inputPath string) (string, error) {
	outputPath := ProcessedPath(inputPath)
	args := append([]string{"-i", inputPath}, faststartOptions().GetStrArguments()...)
	args = append(args, outputPath)

	result, err := remuxer.runner.Run(ctx, remuxer.config.RemuxTimeout, remuxer.config.FfmpegBinPath, args...)
	if err != nil {
		exitCode := -1
		if result != nil {
			exitCode = result.ExitCode
		}

		return "", &RemuxError{Path: inputPath, ExitCode: exitCode, Output: result.Diagnostic(), Err: err}
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		if err == nil {
			err = errMissingOutput
		} else {
			err = fmt.Errorf("%w: %w", errMissingOutput, err)
		}

		return "", &RemuxError{Path: inputPath, ExitCode: result.ExitCode, Output: result.Diagnostic(), Err: err}
	}

	log.Emit(logger.DEBUG, "Remuxed %s -> %s (%d bytes)\n", inputPath, outputPath, info.Size())
	return outputPath, nil
}

func faststartOptions() ffmpeg.Options {
	copyCodec := "copy"
	movFlags := "faststart"
	mapMetadata := "0"
	format := "mp4"
	overwrite := true
	hideBanner := true

	// Every input stream is carried over (extra audio and subtitle tracks
	// included), not just the ones ffmpeg would select by default.
	return ffmpeg.Options{
		ExtraArgs:    map[string]interface{}{"-map": "0", "-c": copyCodec},
		VideoCodec:   &copyCodec,
		AudioCodec:   &copyCodec,
		MovFlags:     &movFlags,
		MapMetadata:  &mapMetadata,
		OutputFormat: &format,
		Overwrite:    &overwrite,
		HideBanner:   &hideBanner,
	}
}
