package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moodify-labs/moodify/internal/auth"
	"github.com/moodify-labs/moodify/internal/dataset"
	"github.com/moodify-labs/moodify/internal/ingest"
	"github.com/moodify-labs/moodify/internal/lastfm"
	spotifyclient "github.com/moodify-labs/moodify/internal/spotify"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Build the mood-labeled training dataset from Spotify playlists",
	Long: `Search Spotify for playlists named after each mood, label their tracks
with that mood, fetch audio features, and write song_mood_data.csv.

Requires SPOTIFY_ID and SPOTIFY_SECRET. With --genre-fallback, artists
Spotify has no genres for are looked up on Last.fm (LASTFM_API_KEY).`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int("playlists-per-mood", 5, "playlists to pull per mood")
	fetchCmd.Flags().Bool("with-genres", false, "attach artist genres and write artists.csv")
	fetchCmd.Flags().Bool("genre-fallback", false, "use Last.fm for artists without Spotify genres")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	api, err := auth.ClientCredentials(ctx)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	client := spotifyclient.New(api, logger)

	opts := []ingest.Option{
		ingest.WithLogger(logger),
		ingest.WithPlaylistsPerMood(cfg.Fetch.PlaylistsPerMood),
		ingest.WithGenres(cfg.Fetch.WithGenres),
	}
	if cfg.Fetch.GenreFallback {
		lfmCfg, err := lastfm.LoadConfig()
		if err != nil {
			return fmt.Errorf("genre fallback: %w", err)
		}
		opts = append(opts, ingest.WithGenreSource(lastfm.NewClient(lfmCfg)))
	}

	svc := ingest.New(client, opts...)
	result, err := svc.BuildMoodDataset(ctx, cfg.Moods())
	if err != nil {
		return fmt.Errorf("building mood dataset: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := dataset.WriteTracks(cfg.SongMoodPath(), result.Tracks); err != nil {
		return err
	}
	if len(result.Artists) > 0 {
		if err := dataset.WriteArtists(cfg.ArtistsPath(), result.Artists); err != nil {
			return err
		}
	}

	logger.Info("mood dataset written",
		"path", cfg.SongMoodPath(),
		"rows", len(result.Tracks),
		"dropped_missing", result.Dropped.Missing,
		"dropped_out_of_range", result.Dropped.OutOfRange,
		"skipped_playlists", result.SkippedPlaylists)
	return nil
}
