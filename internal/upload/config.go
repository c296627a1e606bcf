package upload

import "time"

const (
	defaultMaxVideoBytes     = 1 << 30
	defaultMaxThumbnailBytes = 10 << 20
	defaultSignedURLExpiry   = 360 * time.Second
)

type Config struct {
	// ScratchDir is where uploads are written while being processed. An
	// empty value uses the OS temp directory.
	ScratchDir        string        `yaml:"scratch_dir" env:"UPLOAD_SCRATCH_DIR"`
	MaxVideoBytes     int64         `yaml:"max_video_bytes" env:"UPLOAD_MAX_VIDEO_BYTES" env-default:"1073741824"`
	MaxThumbnailBytes int64         `yaml:"max_thumbnail_bytes" env:"UPLOAD_MAX_THUMBNAIL_BYTES" env-default:"10485760"`
	SignedURLExpiry   time.Duration `yaml:"signed_url_expiry" env:"UPLOAD_SIGNED_URL_EXPIRY" env-default:"360s"`

	// PublicBaseURL is prepended to the asset paths of thumbnails, e.g. http://localhost:8091
	PublicBaseURL string `yaml:"public_base_url" env:"UPLOAD_PUBLIC_BASE_URL" env-default:"http://localhost:8091"`
}

func (config Config) withDefaults() Config {
	if config.MaxVideoBytes <= 0 {
		config.MaxVideoBytes = defaultMaxVideoBytes
	}
	if config.MaxThumbnailBytes <= 0 {
		config.MaxThumbnailBytes = defaultMaxThumbnailBytes
	}
	if config.SignedURLExpiry <= 0 {
		config.SignedURLExpiry = defaultSignedURLExpiry
	}

	return config
}
