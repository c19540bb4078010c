// Package config loads settings from defaults, an optional YAML file
// and the environment, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Source selects the polled player: "spotify" or "mpris".
	Source string `yaml:"source" envconfig:"SOURCE" default:"spotify"`

	// PollIntervalMs is the playback poll cadence. DriftToleranceMs is
	// how far the video player may drift before a corrective seek. The
	// defaults were chosen for perceptual smoothness; change them only
	// with a reason.
	PollIntervalMs   int `yaml:"poll_interval_ms" envconfig:"POLL_INTERVAL_MS" default:"1000"`
	DriftToleranceMs int `yaml:"drift_tolerance_ms" envconfig:"DRIFT_TOLERANCE_MS" default:"2000"`

	LrclibURL         string `yaml:"lrclib_url" envconfig:"LRCLIB_URL" default:"https://lrclib.net/api"`
	GeniusAccessToken string `yaml:"genius_access_token" envconfig:"GENIUS_ACCESS_TOKEN"`
	YouTubeAPIKey     string `yaml:"youtube_api_key" envconfig:"YOUTUBE_API_KEY"`

	// MPVSocket enables the synchronized video player when set; it
	// must point at a running mpv's --input-ipc-server socket.
	MPVSocket string `yaml:"mpv_socket" envconfig:"MPV_SOCKET"`

	MprisService string `yaml:"mpris_service" envconfig:"MPRIS_SERVICE" default:"org.mpris.MediaPlayer2.spotify"`

	SpotifyID     string `yaml:"-" envconfig:"SPOTIFY_ID"`
	SpotifySecret string `yaml:"-" envconfig:"SPOTIFY_SECRET"`

	HideHeader bool `yaml:"hide_header" envconfig:"HIDE_HEADER"`
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *Config) DriftTolerance() time.Duration {
	return time.Duration(c.DriftToleranceMs) * time.Millisecond
}

// Load builds the effective configuration. A missing config file is
// not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debugf("no .env file loaded: %v", err)
	}

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	return cfg, nil
}

// DefaultPath returns the per-user config file location, or "" when no
// user config directory is available.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "spotifyxgenius", "config.yaml")
}
