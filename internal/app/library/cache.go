// Package library manages the local copy of the user's liked-songs library.
package library

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/trueshuffle/internal/domain/track"
)

var (
	// ErrCacheMissing is returned when no cache file exists yet.
	ErrCacheMissing = errors.New("liked-songs cache missing")

	// ErrCacheStale is returned when the cache file is older than the
	// configured maximum age.
	ErrCacheStale = errors.New("liked-songs cache stale")
)

// cacheFile is the on-disk JSON shape of the liked-songs cache.
type cacheFile struct {
	FetchedAt time.Time     `json:"fetched_at"`
	Total     int           `json:"total"`
	Tracks    []track.Track `json:"tracks"`
}

// Cache is a file-backed snapshot of the liked-songs library.
// Writes are whole-file overwrites; there is no merge.
type Cache struct {
	path string
}

// NewCache creates a Cache backed by the given file path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the cache file path.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the cached tracks if the snapshot is younger than maxAge.
// Returns ErrCacheMissing if no cache exists and ErrCacheStale if the
// snapshot has expired; both mean the caller must refetch.
func (c *Cache) Load(maxAge time.Duration) ([]track.Track, time.Time, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, ErrCacheMissing
		}
		return nil, time.Time{}, errors.Wrap(err, "failed to read cache file")
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		// A corrupt cache is treated like a missing one; the next save
		// overwrites it.
		return nil, time.Time{}, ErrCacheMissing
	}

	if time.Since(cf.FetchedAt) > maxAge {
		return nil, cf.FetchedAt, ErrCacheStale
	}

	return cf.Tracks, cf.FetchedAt, nil
}

// Save overwrites the cache with a new snapshot stamped with the current time.
func (c *Cache) Save(tracks []track.Track) error {
	cf := cacheFile{
		FetchedAt: time.Now().UTC(),
		Total:     len(tracks),
		Tracks:    tracks,
	}

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode cache")
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "failed to create cache directory")
		}
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write cache file")
	}

	return nil
}
