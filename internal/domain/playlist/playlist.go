// Package playlist provides the Playlist domain entity.
package playlist

// Playlist represents the target Spotify playlist.
type Playlist struct {
	ID     string // Spotify Playlist ID
	Name   string // Playlist name
	Public bool   // Public/private flag
}

// URL returns the Spotify URL for the playlist.
func (p *Playlist) URL() string {
	return "https://open.spotify.com/playlist/" + p.ID
}
