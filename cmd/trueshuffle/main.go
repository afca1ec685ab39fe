// Package main provides the True Shuffle batch entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/trueshuffle/internal/app/library"
	"github.com/osa030/trueshuffle/internal/app/shuffle"
	"github.com/osa030/trueshuffle/internal/app/updater"
	"github.com/osa030/trueshuffle/internal/infra/config"
	"github.com/osa030/trueshuffle/internal/infra/logger"
	"github.com/osa030/trueshuffle/internal/infra/spotify"
	"github.com/osa030/trueshuffle/internal/infra/tokencache"
)

var (
	app          = kingpin.New("trueshuffle", "Refill the True Shuffle playlist with a random sample of liked songs")
	configPath   = app.Flag("config", "Path to config file").Default("config/trueshuffle.yaml").String()
	verbose      = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile      = app.Flag("logfile", "Path to log file (default: stdout)").String()
	forceRefresh = app.Flag("force-refresh", "Ignore the liked-songs cache and refetch the library").Bool()

	// likes command
	likesCmd = app.Command("likes", "Show the cached liked-songs library")
)

func init() {
	// update command (default)
	app.Command("update", "Update the True Shuffle playlist (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{Output: "stdout", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	switch command {
	case likesCmd.FullCommand():
		err = showLikes(cfg, *forceRefresh)
	default:
		err = run(cfg, *forceRefresh)
	}
	if err != nil {
		zlog.Error().Msgf("Run failed: %v", err)
		os.Exit(1)
	}
}

// run executes one update: authenticate from the cached token, load the
// library (cached or refetched), sample it, and rewrite the playlist.
func run(cfg *config.Config, force bool) error {
	ctx := context.Background()

	client, tokens, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	// Persist any token refresh the transport performed during the run.
	defer persistToken(client, tokens)

	svc := library.NewService(
		library.NewCache(cfg.Cache.LikedSongsFile),
		client,
		cfg.Cache.MaxAge(),
	)

	tracks, err := svc.Tracks(ctx, force)
	if err != nil {
		return err
	}
	zlog.Info().Int("library", len(tracks)).Msg("Liked-songs library loaded")

	sample := shuffle.NewSelector().Select(tracks, cfg.Shuffle.SampleSize)
	if len(sample) < cfg.Shuffle.SampleSize {
		zlog.Warn().
			Int("requested", cfg.Shuffle.SampleSize).
			Int("selected", len(sample)).
			Msg("Library smaller than requested sample size")
	}

	upd := updater.New(client, updater.Config{
		PlaylistID:  cfg.Playlist.ID,
		Name:        cfg.Playlist.Name,
		Description: cfg.Playlist.Description,
		Public:      cfg.Playlist.Public,
	})

	target, err := upd.Replace(ctx, sample)
	if err != nil {
		return err
	}

	zlog.Info().Str("url", target.URL()).Msg("True Shuffle playlist updated")
	return nil
}

// showLikes prints the cached library and its most recent additions.
func showLikes(cfg *config.Config, force bool) error {
	ctx := context.Background()

	client, tokens, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer persistToken(client, tokens)

	svc := library.NewService(
		library.NewCache(cfg.Cache.LikedSongsFile),
		client,
		cfg.Cache.MaxAge(),
	)

	tracks, err := svc.Tracks(ctx, force)
	if err != nil {
		return err
	}

	fmt.Printf("Liked songs: %d\n", len(tracks))
	n := min(10, len(tracks))
	if n > 0 {
		fmt.Println("Most recent additions:")
	}
	for _, t := range tracks[:n] {
		fmt.Printf("  %s - %s (%s)\n", t.ArtistLine(), t.Name, t.AddedAt.Format("2006-01-02"))
	}
	return nil
}

// newClient builds the Spotify client from the cached OAuth token.
func newClient(ctx context.Context, cfg *config.Config) (*spotify.Client, *tokencache.Cache, error) {
	tokens := tokencache.New(cfg.Cache.TokenFile)

	token, err := tokens.Load()
	if err != nil {
		return nil, nil, err
	}
	if token == nil {
		return nil, nil, errors.Newf("no cached token at %s: run trueshuffle-auth first", tokens.Path())
	}

	client, err := spotify.New(ctx, spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURI:  cfg.Spotify.RedirectURI,
	}, token)
	if err != nil {
		return nil, nil, err
	}

	return client, tokens, nil
}

// persistToken rewrites the token cache so a refreshed access token
// survives to the next scheduled run.
func persistToken(client *spotify.Client, tokens *tokencache.Cache) {
	token, err := client.Token()
	if err != nil {
		zlog.Warn().Err(err).Msg("Could not read current token")
		return
	}
	if err := tokens.Save(token); err != nil {
		zlog.Warn().Err(err).Msg("Failed to persist token cache")
	}
}
