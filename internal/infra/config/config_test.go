package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Spotify: SpotifyConfig{
			ClientID:     "test-client-id",
			ClientSecret: "test-client-secret",
			RedirectURI:  "http://127.0.0.1:8888/callback",
		},
		Playlist: PlaylistConfig{
			ID: "37i9dQZF1DXcBWIGoYBM5M",
		},
		Shuffle: ShuffleConfig{SampleSize: 150},
		Cache: CacheConfig{
			TokenFile:      "token.json",
			LikedSongsFile: "liked_songs_cache.json",
			MaxAgeHours:    24,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing client id",
			mutate:  func(c *Config) { c.Spotify.ClientID = "" },
			wantErr: true,
		},
		{
			name:    "missing client secret",
			mutate:  func(c *Config) { c.Spotify.ClientSecret = "" },
			wantErr: true,
		},
		{
			name:    "missing playlist id",
			mutate:  func(c *Config) { c.Playlist.ID = "" },
			wantErr: true,
		},
		{
			name:    "invalid redirect uri",
			mutate:  func(c *Config) { c.Spotify.RedirectURI = "not a url" },
			wantErr: true,
		},
		{
			name:    "zero sample size",
			mutate:  func(c *Config) { c.Shuffle.SampleSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative cache age",
			mutate:  func(c *Config) { c.Cache.MaxAgeHours = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")
	t.Setenv("TRUE_SHUFFLE_PLAYLIST_ID", "")
	t.Setenv("TRUE_SHUFFLE_SAMPLE_SIZE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "trueshuffle.yaml")

	yaml := `
spotify:
  client_id: file-client-id
  client_secret: file-client-secret
playlist:
  id: file-playlist-id
  name: My Shuffle
shuffle:
  sample_size: 42
cache:
  max_age_hours: 6
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-client-id", cfg.Spotify.ClientID)
	assert.Equal(t, "file-playlist-id", cfg.Playlist.ID)
	assert.Equal(t, "My Shuffle", cfg.Playlist.Name)
	assert.Equal(t, 42, cfg.Shuffle.SampleSize)
	assert.Equal(t, 6*time.Hour, cfg.Cache.MaxAge())

	// defaults fill in what the file omits
	assert.Equal(t, "http://127.0.0.1:8888/callback", cfg.Spotify.RedirectURI)
	assert.Equal(t, "token.json", cfg.Cache.TokenFile)
	assert.Equal(t, "liked_songs_cache.json", cfg.Cache.LikedSongsFile)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "env-client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-client-secret")
	t.Setenv("TRUE_SHUFFLE_PLAYLIST_ID", "env-playlist-id")
	t.Setenv("TRUE_SHUFFLE_SAMPLE_SIZE", "99")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-client-id", cfg.Spotify.ClientID)
	assert.Equal(t, "env-playlist-id", cfg.Playlist.ID)
	assert.Equal(t, 99, cfg.Shuffle.SampleSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trueshuffle.yaml")

	yaml := `
spotify:
  client_id: file-client-id
  client_secret: file-client-secret
playlist:
  id: file-playlist-id
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	t.Setenv("SPOTIFY_CLIENT_ID", "env-client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")
	t.Setenv("TRUE_SHUFFLE_PLAYLIST_ID", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-client-id", cfg.Spotify.ClientID)
	assert.Equal(t, "file-client-secret", cfg.Spotify.ClientSecret)
}

func TestLoad_MissingRequiredFails(t *testing.T) {
	// no file, no env
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")
	t.Setenv("TRUE_SHUFFLE_PLAYLIST_ID", "")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
