// Package config provides the configuration structure for tts-studio.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
	"github.com/pelletier/go-toml/v2"
)

// Defaults applied when the configuration leaves a value empty.
const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultOverlapPolicy = "reject"
	DefaultBucket        = "TTS_STUDIO_AUDIO"
	DefaultSubject       = "audio.chunk.created"

	// EnvAPIURL overrides api.base_url when set.
	EnvAPIURL = "TTS_API_URL"
)

// APIConfig holds the connection settings for the remote TTS service.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	// TimeoutSeconds of zero means requests wait on the transport's own defaults.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// StudioConfig holds controller behaviour.
type StudioConfig struct {
	OverlapPolicy string `toml:"overlap_policy"`
}

// PlayerConfig describes the external binary used to play generated audio.
type PlayerConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// ArchiveConfig holds the optional NATS archive settings.
type ArchiveConfig struct {
	NATSURL string `toml:"nats_url"`
	Bucket  string `toml:"bucket"`
	Subject string `toml:"subject"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	API     APIConfig     `toml:"api"`
	Studio  StudioConfig  `toml:"studio"`
	Player  PlayerConfig  `toml:"player"`
	Archive ArchiveConfig `toml:"archive"`
	Paths   PathsConfig   `toml:"paths"`
}

// Load loads the configuration through the central configurator.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// LoadFile reads the configuration from a local TOML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config

	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults fills empty values and applies the TTS_API_URL override.
func (c *Config) ApplyDefaults() {
	if envURL := os.Getenv(EnvAPIURL); envURL != "" {
		c.API.BaseURL = envURL
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}

	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")

	if c.Studio.OverlapPolicy == "" {
		c.Studio.OverlapPolicy = DefaultOverlapPolicy
	}

	if c.Archive.Bucket == "" {
		c.Archive.Bucket = DefaultBucket
	}

	if c.Archive.Subject == "" {
		c.Archive.Subject = DefaultSubject
	}

	if c.Paths.BaseLogsDir == "" {
		c.Paths.BaseLogsDir = os.TempDir()
	}
}

// ArchiveEnabled reports whether generated audio should be sent to NATS.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.NATSURL != ""
}
