// Package updater rewrites the target playlist with a new sample.
package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/trueshuffle/internal/domain/playlist"
	"github.com/osa030/trueshuffle/internal/domain/track"
)

// PlaylistClient is the subset of the Spotify client the updater needs.
type PlaylistClient interface {
	GetPlaylist(ctx context.Context, playlistID string) (*playlist.Playlist, error)
	CreatePlaylist(ctx context.Context, name, description string, public bool) (string, error)
	SetPlaylistAccess(ctx context.Context, playlistID string, public bool) error
	SetPlaylistDescription(ctx context.Context, playlistID, description string) error
	ClearPlaylist(ctx context.Context, playlistID string) (int, error)
	AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error
}

// Config represents the target playlist settings.
type Config struct {
	PlaylistID  string
	Name        string
	Description string
	Public      bool
}

// Updater replaces the target playlist's membership each run.
type Updater struct {
	client PlaylistClient
	cfg    Config
	now    func() time.Time
}

// New creates an Updater.
func New(client PlaylistClient, cfg Config) *Updater {
	return &Updater{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Replace overwrites the target playlist with the given sample.
// The playlist is created if the configured ID is not accessible; the
// description is stamped with the run time either way. Membership is
// fully replaced, not merged: anything a user added by hand is discarded.
func (u *Updater) Replace(ctx context.Context, sample []track.Track) (*playlist.Playlist, error) {
	target, err := u.ensurePlaylist(ctx)
	if err != nil {
		return nil, err
	}
	playlistID := target.ID

	description := fmt.Sprintf("%s Last updated: %s",
		u.cfg.Description, u.now().Format("2006-01-02 15:04"))
	if err := u.client.SetPlaylistDescription(ctx, playlistID, description); err != nil {
		// Non-fatal: the description is cosmetic.
		zlog.Warn().Err(err).Msg("Failed to update playlist description")
	}

	removed, err := u.client.ClearPlaylist(ctx, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to clear playlist")
	}
	zlog.Info().Int("removed", removed).Msg("Cleared existing playlist tracks")

	if len(sample) == 0 {
		zlog.Warn().Msg("Empty sample, leaving playlist empty")
		return target, nil
	}

	if err := u.client.AddTracksToPlaylist(ctx, playlistID, track.URIs(sample)); err != nil {
		return nil, errors.Wrap(err, "failed to add sampled tracks")
	}

	zlog.Info().
		Int("added", len(sample)).
		Str("playlist_id", playlistID).
		Msg("Replaced playlist contents")

	return target, nil
}

// ensurePlaylist resolves the configured playlist, creating it when the
// configured ID no longer points at an accessible playlist, and keeps
// the privacy flag in line with the configuration.
func (u *Updater) ensurePlaylist(ctx context.Context) (*playlist.Playlist, error) {
	target, err := u.client.GetPlaylist(ctx, u.cfg.PlaylistID)
	if err != nil {
		zlog.Warn().Err(err).Str("playlist_id", u.cfg.PlaylistID).
			Msg("Configured playlist not accessible, creating a new one")

		id, createErr := u.client.CreatePlaylist(ctx, u.cfg.Name, u.cfg.Description, u.cfg.Public)
		if createErr != nil {
			return nil, errors.Wrap(createErr, "failed to create playlist")
		}

		zlog.Info().Str("playlist_id", id).Str("name", u.cfg.Name).
			Msg("Created target playlist; update the configured playlist ID")
		return &playlist.Playlist{ID: id, Name: u.cfg.Name, Public: u.cfg.Public}, nil
	}

	if target.Public != u.cfg.Public {
		if err := u.client.SetPlaylistAccess(ctx, target.ID, u.cfg.Public); err != nil {
			return nil, errors.Wrap(err, "failed to update playlist access")
		}
		target.Public = u.cfg.Public
		zlog.Info().Bool("public", u.cfg.Public).Msg("Updated playlist privacy")
	}

	return target, nil
}
