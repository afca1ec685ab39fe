// Package spotify provides a client for the Spotify API.
package spotify

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/trueshuffle/internal/domain/playlist"
	"github.com/osa030/trueshuffle/internal/domain/track"
)

const (
	// likedPageSize is the maximum page size for the saved-tracks endpoint.
	likedPageSize = 50

	// playlistBatchSize is the maximum number of tracks per playlist
	// add/remove request.
	playlistBatchSize = 100
)

// Client is a Spotify API client.
type Client struct {
	client     *spotify.Client
	maxRetries int
	retryDelay time.Duration
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// NewAuthenticator creates the OAuth authenticator with the scopes this
// application needs: reading the library and modifying the target playlist.
func NewAuthenticator(cfg Config) *spotifyauth.Authenticator {
	opts := []spotifyauth.AuthenticatorOption{
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserLibraryRead,
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopePlaylistReadPrivate,
		),
	}
	if cfg.RedirectURI != "" {
		opts = append(opts, spotifyauth.WithRedirectURL(cfg.RedirectURI))
	}
	return spotifyauth.New(opts...)
}

// New creates a new Spotify client from a previously cached token.
// The underlying oauth2 transport refreshes the access token transparently;
// callers should persist Token() after a run so the refreshed token survives
// to the next scheduled invocation.
func New(ctx context.Context, cfg Config, token *oauth2.Token) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}
	if token == nil || token.RefreshToken == "" {
		return nil, errors.New("no cached token: run the auth tool to authorize")
	}

	auth := NewAuthenticator(cfg)
	client := spotify.New(auth.Client(ctx, token))

	return &Client{
		client:     client,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// Token returns the current OAuth token held by the underlying transport,
// including any refresh performed since the client was created.
func (c *Client) Token() (*oauth2.Token, error) {
	token, err := c.client.Token()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current token")
	}
	return token, nil
}

// CurrentUserID returns the authenticated user's ID.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	user, err := c.client.CurrentUser(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get current user")
	}
	return user.ID, nil
}

// FetchLikedTracks retrieves the user's entire liked-songs library,
// in the order the API returns it (most recently saved first).
// Any page failure aborts the whole fetch.
func (c *Client) FetchLikedTracks(ctx context.Context) ([]track.Track, error) {
	var tracks []track.Track
	offset := 0

	for {
		var page *spotify.SavedTrackPage
		err := c.retry(func() error {
			p, err := c.client.CurrentUsersTracks(ctx,
				spotify.Limit(likedPageSize),
				spotify.Offset(offset),
			)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get saved tracks")
		}

		for _, saved := range page.Tracks {
			tracks = append(tracks, convertSavedTrack(saved))
		}

		if len(page.Tracks) < likedPageSize {
			break
		}
		offset += likedPageSize
	}

	return tracks, nil
}

// LatestLikedTracks retrieves only the first page of the liked-songs
// library. Used as a lightweight freshness probe against the local cache
// without paging through the whole library.
func (c *Client) LatestLikedTracks(ctx context.Context) ([]track.Track, error) {
	var page *spotify.SavedTrackPage
	err := c.retry(func() error {
		p, err := c.client.CurrentUsersTracks(ctx, spotify.Limit(likedPageSize))
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get saved tracks")
	}

	tracks := make([]track.Track, 0, len(page.Tracks))
	for _, saved := range page.Tracks {
		tracks = append(tracks, convertSavedTrack(saved))
	}
	return tracks, nil
}

// GetPlaylist retrieves playlist metadata by ID, URL, or URI.
func (c *Client) GetPlaylist(ctx context.Context, playlistID string) (*playlist.Playlist, error) {
	id := extractPlaylistID(playlistID)
	if id == "" {
		return nil, errors.New("invalid playlist ID")
	}

	var result *spotify.FullPlaylist
	err := c.retry(func() error {
		p, err := c.client.GetPlaylist(ctx, spotify.ID(id))
		if err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get playlist")
	}

	return &playlist.Playlist{
		ID:     string(result.ID),
		Name:   result.Name,
		Public: result.IsPublic,
	}, nil
}

// CreatePlaylist creates a new playlist for the current user and returns its ID.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string, public bool) (string, error) {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}

	var created *spotify.FullPlaylist
	err = c.retry(func() error {
		p, err := c.client.CreatePlaylistForUser(ctx, userID, name, description, public, false)
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to create playlist")
	}

	return string(created.ID), nil
}

// SetPlaylistAccess updates the playlist's public/private flag.
func (c *Client) SetPlaylistAccess(ctx context.Context, playlistID string, public bool) error {
	err := c.retry(func() error {
		return c.client.ChangePlaylistAccess(ctx, spotify.ID(extractPlaylistID(playlistID)), public)
	})
	if err != nil {
		return errors.Wrap(err, "failed to change playlist access")
	}
	return nil
}

// SetPlaylistDescription updates the playlist description.
func (c *Client) SetPlaylistDescription(ctx context.Context, playlistID, description string) error {
	err := c.retry(func() error {
		return c.client.ChangePlaylistDescription(ctx, spotify.ID(extractPlaylistID(playlistID)), description)
	})
	if err != nil {
		return errors.Wrap(err, "failed to change playlist description")
	}
	return nil
}

// ClearPlaylist removes every track from a playlist.
// It pages through the current membership and removes in batches. A batch
// failure is surfaced as-is; already-removed batches are not rolled back.
func (c *Client) ClearPlaylist(ctx context.Context, playlistID string) (int, error) {
	id := extractPlaylistID(playlistID)
	if id == "" {
		return 0, errors.New("invalid playlist ID")
	}

	var ids []spotify.ID
	offset := 0
	for {
		var page *spotify.PlaylistItemPage
		err := c.retry(func() error {
			p, err := c.client.GetPlaylistItems(ctx, spotify.ID(id),
				spotify.Limit(playlistBatchSize),
				spotify.Offset(offset),
			)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			return 0, errors.Wrap(err, "failed to get playlist items")
		}

		for _, item := range page.Items {
			// Episodes and removed tracks show up as nil/empty entries.
			if item.Track.Track != nil && item.Track.Track.ID != "" {
				ids = append(ids, item.Track.Track.ID)
			}
		}

		if len(page.Items) < playlistBatchSize {
			break
		}
		offset += playlistBatchSize
	}

	if len(ids) == 0 {
		return 0, nil
	}

	for i := 0; i < len(ids); i += playlistBatchSize {
		end := min(i+playlistBatchSize, len(ids))
		batch := ids[i:end]

		err := c.retry(func() error {
			_, err := c.client.RemoveTracksFromPlaylist(ctx, spotify.ID(id), batch...)
			return err
		})
		if err != nil {
			return 0, errors.Wrap(err, "failed to remove tracks from playlist")
		}
	}

	return len(ids), nil
}

// AddTracksToPlaylist adds tracks to a playlist in batches.
// trackIDs can be Spotify IDs, URLs, or URIs.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, trackID := range trackIDs {
		ids[i] = spotify.ID(extractTrackID(trackID))
	}

	for i := 0; i < len(ids); i += playlistBatchSize {
		end := min(i+playlistBatchSize, len(ids))
		batch := ids[i:end]

		err := c.retry(func() error {
			_, err := c.client.AddTracksToPlaylist(ctx, spotify.ID(extractPlaylistID(playlistID)), batch...)
			return err
		})
		if err != nil {
			return errors.Wrap(err, "failed to add tracks to playlist")
		}
	}

	return nil
}

// convertSavedTrack converts a Spotify SavedTrack to a domain Track.
func convertSavedTrack(saved spotify.SavedTrack) track.Track {
	artists := make([]string, len(saved.Artists))
	for i, a := range saved.Artists {
		artists[i] = a.Name
	}

	// added_at is RFC3339; a parse failure leaves the zero time.
	addedAt, _ := time.Parse(time.RFC3339, saved.AddedAt)

	return track.Track{
		ID:      string(saved.ID),
		Name:    saved.Name,
		Artists: artists,
		Album:   saved.Album.Name,
		AddedAt: addedAt,
		URI:     string(saved.URI),
	}
}

// retry retries an operation with linear backoff.
func (c *Client) retry(fn func() error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelay * time.Duration(i+1))
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	// Rate limit errors and server errors are retryable
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}

// extractPlaylistID extracts the playlist ID from a Spotify playlist URL or URI.
func extractPlaylistID(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "spotify:playlist:") {
		return strings.TrimPrefix(input, "spotify:playlist:")
	}

	// https://open.spotify.com/playlist/ID or https://open.spotify.com/intl-XX/playlist/ID
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/playlist/") {
		parts := strings.Split(input, "/playlist/")
		if len(parts) >= 2 {
			id := strings.Split(parts[len(parts)-1], "?")[0]
			return strings.TrimRight(id, "/")
		}
	}

	// Assume it's already a playlist ID
	return input
}

// extractTrackID extracts the track ID from a Spotify track URL or URI.
func extractTrackID(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "spotify:track:") {
		return strings.TrimPrefix(input, "spotify:track:")
	}

	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/track/") {
		parts := strings.Split(input, "/track/")
		if len(parts) >= 2 {
			id := strings.Split(parts[len(parts)-1], "?")[0]
			return strings.TrimRight(id, "/")
		}
	}

	// Assume it's already a track ID
	return input
}
