package library

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/trueshuffle/internal/domain/track"
)

func sampleTracks() []track.Track {
	return []track.Track{
		{
			ID:      "track-1",
			Name:    "First",
			Artists: []string{"Artist A"},
			Album:   "Album A",
			AddedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			URI:     "spotify:track:track-1",
		},
		{
			ID:      "track-2",
			Name:    "Second",
			Artists: []string{"Artist B", "Artist C"},
			Album:   "Album B",
			AddedAt: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
			URI:     "spotify:track:track-2",
		},
	}
}

func TestCache_SaveAndLoad(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "liked_songs_cache.json"))

	require.NoError(t, cache.Save(sampleTracks()))

	tracks, fetchedAt, err := cache.Load(time.Hour)
	require.NoError(t, err)

	assert.Equal(t, sampleTracks(), tracks)
	assert.WithinDuration(t, time.Now(), fetchedAt, 10*time.Second)
}

func TestCache_LoadMissing(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "liked_songs_cache.json"))

	_, _, err := cache.Load(time.Hour)
	assert.ErrorIs(t, err, ErrCacheMissing)
}

func TestCache_LoadStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liked_songs_cache.json")

	cf := cacheFile{
		FetchedAt: time.Now().UTC().Add(-25 * time.Hour),
		Total:     1,
		Tracks:    sampleTracks()[:1],
	}
	data, err := json.Marshal(cf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, fetchedAt, loadErr := NewCache(path).Load(24 * time.Hour)
	assert.ErrorIs(t, loadErr, ErrCacheStale)
	assert.Equal(t, cf.FetchedAt, fetchedAt.UTC())
}

func TestCache_LoadWithinMaxAge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liked_songs_cache.json")

	cf := cacheFile{
		FetchedAt: time.Now().UTC().Add(-23 * time.Hour),
		Total:     1,
		Tracks:    sampleTracks()[:1],
	}
	data, err := json.Marshal(cf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	tracks, _, loadErr := NewCache(path).Load(24 * time.Hour)
	require.NoError(t, loadErr)
	assert.Len(t, tracks, 1)
}

func TestCache_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liked_songs_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, _, err := NewCache(path).Load(time.Hour)
	assert.ErrorIs(t, err, ErrCacheMissing)
}

func TestCache_SaveOverwrites(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "liked_songs_cache.json"))

	require.NoError(t, cache.Save(sampleTracks()))
	require.NoError(t, cache.Save(sampleTracks()[:1]))

	tracks, _, err := cache.Load(time.Hour)
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
}
