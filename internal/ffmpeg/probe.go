package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/floostack/transcoder/ffmpeg"
	"github.com/hbomb79/Tubely/internal/media"
	"github.com/hbomb79/Tubely/pkg/logger"
)

var errNoVideoStream = errors.New("ffprobe output contains no video stream dimensions")

// Prober uses ffprobe to inspect the primary video stream of a file.
type Prober struct {
	runner Runner
	config Config
}

func NewProber(runner Runner, config Config) *Prober {
	return &Prober{runner: runner, config: config}
}

// Dimensions returns the width and height of the first video stream in
// the file at the given path. Any failure is returned as a *ProbeError.
func (prober *Prober) Dimensions(ctx context.Context, path string) (int, int, error) {
	result, err := prober.runner.Run(ctx, prober.config.ProbeTimeout, prober.config.FfprobeBinPath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-print_format", "json",
		path,
	)
	if err != nil {
		return 0, 0, &ProbeError{Path: path, Output: result.Diagnostic(), Err: err}
	}

	var metadata ffmpeg.Metadata
	if err := json.Unmarshal(result.Stdout, &metadata); err != nil {
		return 0, 0, &ProbeError{Path: path, Output: result.Diagnostic(), Err: fmt.Errorf("malformed ffprobe output: %w", err)}
	}

	streams := metadata.GetStreams()
	if len(streams) == 0 {
		return 0, 0, &ProbeError{Path: path, Output: result.Diagnostic(), Err: errNoVideoStream}
	}

	width, height := streams[0].GetWidth(), streams[0].GetHeight()
	if width <= 0 || height <= 0 {
		return 0, 0, &ProbeError{Path: path, Output: result.Diagnostic(), Err: errNoVideoStream}
	}

	return width, height, nil
}

// Classify probes the file and buckets its aspect ratio.
func (prober *Prober) Classify(ctx context.Context, path string) (media.Classification, error) {
	width, height, err := prober.Dimensions(ctx, path)
	if err != nil {
		return "", err
	}

	classification := media.ClassifyAspect(width, height)
	log.Emit(logger.DEBUG, "Probed %s: %dx%d (%s)\n", path, width, height, classification)
	return classification, nil
}
