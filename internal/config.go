package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hbomb79/Tubely/internal/api"
	"github.com/hbomb79/Tubely/internal/database"
	"github.com/hbomb79/Tubely/internal/ffmpeg"
	"github.com/hbomb79/Tubely/internal/storage"
	"github.com/hbomb79/Tubely/internal/upload"
	"github.com/hbomb79/Tubely/pkg/logger"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
)

const DefaultConfigPath = "~/.config/tubely/config.yaml"

// TubelyConfig is the struct used to contain the
// various user config supplied by file or environment.
type TubelyConfig struct {
	RestConfig api.RestConfig          `yaml:"api"`
	Database   database.DatabaseConfig `yaml:"database" env-required:"true"`
	Ffmpeg     ffmpeg.Config           `yaml:"ffmpeg"`
	Storage    storage.Config          `yaml:"storage" env-required:"true"`
	Upload     upload.Config           `yaml:"upload"`
}

// String summarises the config for logging. Credentials are never included.
func (config TubelyConfig) String() string {
	return fmt.Sprintf(
		"{api=%s db=%s@%s:%s/%s storage=%s (region=%s endpoint=%q) scratch=%s}",
		config.RestConfig.HostAddr,
		config.Database.User, config.Database.Host, config.Database.Port, config.Database.Name,
		config.Storage.Bucket, config.Storage.Region, config.Storage.Endpoint,
		config.Upload.ScratchDir,
	)
}

// LoadConfig loads a YAML configuration file in to a TubelyConfig, with
// environment variables taking precedence over the file. If the file
// does not exist then the config is read entirely from the environment.
func LoadConfig(configPath string) (*TubelyConfig, error) {
	path, err := homedir.Expand(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %s: %w", configPath, err)
	}

	config := &TubelyConfig{}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Emit(logger.WARNING, "Config file %s not found, reading config from environment only\n", path)
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}

	if config.Upload.ScratchDir == "" {
		config.Upload.ScratchDir = filepath.Join(os.TempDir(), "tubely")
	}

	return config, nil
}
