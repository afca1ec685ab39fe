// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Spotify  SpotifyConfig  `yaml:"spotify"`
	Playlist PlaylistConfig `yaml:"playlist"`
	Shuffle  ShuffleConfig  `yaml:"shuffle"`
	Cache    CacheConfig    `yaml:"cache"`
}

// SpotifyConfig represents Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	RedirectURI  string `yaml:"redirect_uri" default:"http://127.0.0.1:8888/callback" validate:"required,url"`
}

// PlaylistConfig represents the target playlist settings.
type PlaylistConfig struct {
	ID          string `yaml:"id" validate:"required"`
	Name        string `yaml:"name" default:"True Shuffle"`
	Description string `yaml:"description" default:"A daily shuffled selection of random songs from your liked songs."`
	Public      bool   `yaml:"public" default:"false"`
}

// ShuffleConfig represents sample selection settings.
type ShuffleConfig struct {
	SampleSize int `yaml:"sample_size" default:"150" validate:"gt=0,lte=10000"`
}

// CacheConfig represents local cache file settings.
type CacheConfig struct {
	TokenFile      string `yaml:"token_file" default:"token.json"`
	LikedSongsFile string `yaml:"liked_songs_file" default:"liked_songs_cache.json"`
	MaxAgeHours    int    `yaml:"max_age_hours" default:"24" validate:"gt=0"`
}

// MaxAge returns the liked-songs cache expiry as a duration.
func (c *CacheConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeHours) * time.Hour
}

// Load loads configuration from a YAML file.
// A missing file is not an error: all settings can come from environment
// variables, which is how scheduled runs are configured.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	case os.IsNotExist(err):
		// env-only configuration
	default:
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
// Environment variables take precedence so secrets never need to live
// in the config file.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		c.Spotify.RedirectURI = v
	}
	if v := os.Getenv("TRUE_SHUFFLE_PLAYLIST_ID"); v != "" {
		c.Playlist.ID = v
	}
	if v := os.Getenv("TRUE_SHUFFLE_SAMPLE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Shuffle.SampleSize = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
