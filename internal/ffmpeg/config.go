package ffmpeg

import (
	"time"

	"github.com/hbomb79/Tubely/pkg/logger"
)

var log = logger.Get("FFmpeg")

// Config controls where the ffmpeg/ffprobe binaries are found, and how
// long each invocation is allowed to run for before being killed.
type Config struct {
	FfmpegBinPath  string        `yaml:"ffmpeg_path" env:"FORMAT_FFMPEG_BINARY_PATH" env-default:"/usr/bin/ffmpeg"`
	FfprobeBinPath string        `yaml:"ffprobe_path" env:"FORMAT_FFPROBE_BINARY_PATH" env-default:"/usr/bin/ffprobe"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout" env:"FORMAT_PROBE_TIMEOUT" env-default:"30s"`
	RemuxTimeout   time.Duration `yaml:"remux_timeout" env:"FORMAT_REMUX_TIMEOUT" env-default:"10m"`
}
