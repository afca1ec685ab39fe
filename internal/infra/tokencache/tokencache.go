// Package tokencache persists the Spotify OAuth token to a local file
// so scheduled runs can re-authenticate without user interaction.
package tokencache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2"
)

// Cache is a file-backed store for a single OAuth token.
type Cache struct {
	path string
}

// New creates a Cache backed by the given file path.
func New(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the file path where the token is stored.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the cached token from disk.
// Returns (nil, nil) if no token has been saved yet.
func (c *Cache) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read token file")
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, errors.Wrap(err, "failed to parse token file")
	}

	return &token, nil
}

// Save writes the token to disk, creating parent directories as needed.
// The file is written with owner-only permissions because it holds a
// refresh token.
func (c *Cache) Save(token *oauth2.Token) error {
	if token == nil {
		return errors.New("cannot save nil token")
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrap(err, "failed to create token directory")
		}
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode token")
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write token file")
	}

	return nil
}
