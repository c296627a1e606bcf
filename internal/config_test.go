package internal_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hbomb79/Tubely/internal"
	"github.com/hbomb79/Tubely/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetMinLoggingLevel(logger.VERBOSE.Level())
}

const configYaml = `
api:
  host_address: 127.0.0.1:9000
  jwt_secret: file-secret
database:
  username: tubely
  password: hunter2
storage:
  bucket: tubely-videos
  endpoint: http://localhost:9001
upload:
  scratch_dir: /var/tmp/tubely
  signed_url_expiry: 10m
`

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYaml), 0o644))

	config, err := internal.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", config.RestConfig.HostAddr)
	assert.Equal(t, "file-secret", config.RestConfig.JWTSecret)
	assert.Equal(t, "tubely", config.Database.User)
	assert.Equal(t, "5432", config.Database.Port)
	assert.Equal(t, "tubely-videos", config.Storage.Bucket)
	assert.Equal(t, "us-east-1", config.Storage.Region)
	assert.Equal(t, "/var/tmp/tubely", config.Upload.ScratchDir)
	assert.Equal(t, 10*time.Minute, config.Upload.SignedURLExpiry)
	assert.Equal(t, int64(1<<30), config.Upload.MaxVideoBytes)
	assert.Equal(t, 30*time.Second, config.Ffmpeg.ProbeTimeout)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYaml), 0o644))
	t.Setenv("API_JWT_SECRET", "env-secret")

	config, err := internal.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", config.RestConfig.JWTSecret)
}

func TestLoadConfig_MissingFileReadsEnvironment(t *testing.T) {
	t.Setenv("API_JWT_SECRET", "env-secret")
	t.Setenv("DB_USERNAME", "tubely")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("S3_BUCKET", "tubely-videos")

	config, err := internal.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", config.RestConfig.JWTSecret)
	assert.Equal(t, "tubely-videos", config.Storage.Bucket)
	assert.Equal(t, filepath.Join(os.TempDir(), "tubely"), config.Upload.ScratchDir)
	assert.Equal(t, "0.0.0.0:8091", config.RestConfig.HostAddr)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  host_address: 127.0.0.1:9000\n"), 0o644))

	_, err := internal.LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigString_OmitsCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYaml), 0o644))

	config, err := internal.LoadConfig(path)
	require.NoError(t, err)
	config.Storage.SecretKey = "s3-secret-key"

	summary := config.String()
	assert.Contains(t, summary, "tubely-videos")
	assert.Contains(t, summary, "127.0.0.1:9000")
	for _, secret := range []string{"file-secret", "hunter2", "s3-secret-key"} {
		assert.NotContains(t, summary, secret)
	}
}
