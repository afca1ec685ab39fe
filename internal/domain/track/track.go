// Package track provides the Track domain entity.
package track

import (
	"strings"
	"time"
)

// Track represents a liked song saved in the user's Spotify library.
// Contains only information retrieved from Spotify API; immutable once fetched.
type Track struct {
	ID      string    `json:"id"`       // Spotify Track ID
	Name    string    `json:"name"`     // Track name
	Artists []string  `json:"artists"`  // Artist names in API order
	Album   string    `json:"album"`    // Album name
	AddedAt time.Time `json:"added_at"` // Time the track was saved to the library
	URI     string    `json:"uri"`      // Playable Spotify URI (spotify:track:...)
}

// ArtistLine returns the artist names joined for display.
func (t *Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// URIs extracts the playable URIs from a track list, preserving order.
func URIs(tracks []Track) []string {
	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}
	return uris
}

// Newest returns the most recent AddedAt timestamp in the list,
// or the zero time for an empty list.
func Newest(tracks []Track) time.Time {
	var newest time.Time
	for _, t := range tracks {
		if t.AddedAt.After(newest) {
			newest = t.AddedAt
		}
	}
	return newest
}
