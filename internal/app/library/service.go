package library

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/trueshuffle/internal/domain/track"
)

// Fetcher retrieves liked tracks from the Spotify API.
type Fetcher interface {
	// FetchLikedTracks pages through the entire library.
	FetchLikedTracks(ctx context.Context) ([]track.Track, error)

	// LatestLikedTracks returns only the most recently saved tracks.
	LatestLikedTracks(ctx context.Context) ([]track.Track, error)
}

// Service combines the local cache with the API fetcher.
type Service struct {
	cache   *Cache
	fetcher Fetcher
	maxAge  time.Duration
}

// NewService creates a library service.
func NewService(cache *Cache, fetcher Fetcher, maxAge time.Duration) *Service {
	return &Service{
		cache:   cache,
		fetcher: fetcher,
		maxAge:  maxAge,
	}
}

// Tracks returns the liked-songs library, preferring the local cache.
//
// The cache is used when it is younger than the configured maximum age and
// the first page of the live library contains nothing newer than the cached
// snapshot. Otherwise the whole library is refetched and the cache is
// overwritten. force skips the cache entirely.
func (s *Service) Tracks(ctx context.Context, force bool) ([]track.Track, error) {
	if !force {
		cached, fetchedAt, err := s.cache.Load(s.maxAge)
		switch {
		case err == nil:
			fresh, probeErr := s.isFresh(ctx, fetchedAt)
			if probeErr != nil {
				zlog.Warn().Err(probeErr).Msg("Freshness probe failed, refetching library")
			} else if fresh {
				zlog.Info().
					Int("tracks", len(cached)).
					Time("fetched_at", fetchedAt).
					Msg("Using cached liked songs")
				return cached, nil
			} else {
				zlog.Info().Msg("New liked songs since cache, refetching library")
			}
		case errors.Is(err, ErrCacheMissing):
			zlog.Info().Msg("No liked-songs cache, fetching library")
		case errors.Is(err, ErrCacheStale):
			zlog.Info().Time("fetched_at", fetchedAt).Msg("Liked-songs cache expired, refetching library")
		default:
			return nil, err
		}
	}

	return s.refresh(ctx)
}

// isFresh reports whether the cached snapshot still covers the library,
// by checking the first page of saved tracks for additions newer than the
// snapshot timestamp. Removals are only picked up once the cache expires.
func (s *Service) isFresh(ctx context.Context, fetchedAt time.Time) (bool, error) {
	latest, err := s.fetcher.LatestLikedTracks(ctx)
	if err != nil {
		return false, err
	}
	return !track.Newest(latest).After(fetchedAt), nil
}

// refresh fetches the entire library and overwrites the cache.
func (s *Service) refresh(ctx context.Context) ([]track.Track, error) {
	tracks, err := s.fetcher.FetchLikedTracks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch liked songs")
	}

	if err := s.cache.Save(tracks); err != nil {
		return nil, errors.Wrap(err, "failed to save liked-songs cache")
	}

	zlog.Info().Int("tracks", len(tracks)).Msg("Fetched liked songs and updated cache")
	return tracks, nil
}
