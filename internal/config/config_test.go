// Package config_test tests the configuration loading for tts-studio.
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/tts-studio/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlData = `
[api]
base_url = "http://tts.internal:9000/"
timeout_seconds = 45

[studio]
overlap_policy = "cancel"

[player]
command = "aplay"
args = ["-q"]

[archive]
nats_url = "nats://127.0.0.1:4222"
bucket = "AUDIO_FILES"
subject = "studio.audio"

[paths]
base_logs_dir = "/var/log/tts-studio"
`

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "http://tts.internal:9000/", cfg.API.BaseURL)
	assert.Equal(t, 45, cfg.API.TimeoutSeconds)
	assert.Equal(t, "cancel", cfg.Studio.OverlapPolicy)
	assert.Equal(t, "aplay", cfg.Player.Command)
	assert.Equal(t, []string{"-q"}, cfg.Player.Args)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Archive.NATSURL)
	assert.Equal(t, "AUDIO_FILES", cfg.Archive.Bucket)
	assert.Equal(t, "studio.audio", cfg.Archive.Subject)
	assert.Equal(t, "/var/log/tts-studio", cfg.Paths.BaseLogsDir)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlData), 0o600))

	t.Setenv(config.EnvAPIURL, "")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://tts.internal:9000", cfg.API.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, "cancel", cfg.Studio.OverlapPolicy)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "")

	var cfg config.Config

	cfg.ApplyDefaults()

	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 0, cfg.API.TimeoutSeconds)
	assert.Equal(t, config.DefaultOverlapPolicy, cfg.Studio.OverlapPolicy)
	assert.Equal(t, config.DefaultBucket, cfg.Archive.Bucket)
	assert.Equal(t, config.DefaultSubject, cfg.Archive.Subject)
	assert.NotEmpty(t, cfg.Paths.BaseLogsDir)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestApplyDefaults_EnvOverride(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "http://override:8123")

	cfg := config.Config{API: config.APIConfig{BaseURL: "http://ignored:1"}}
	cfg.ApplyDefaults()

	assert.Equal(t, "http://override:8123", cfg.API.BaseURL)
}
