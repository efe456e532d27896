package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moodify-labs/moodify/internal/auth"
	"github.com/moodify-labs/moodify/internal/dataset"
	"github.com/moodify-labs/moodify/internal/ingest"
	spotifyclient "github.com/moodify-labs/moodify/internal/spotify"
)

var topTracksCmd = &cobra.Command{
	Use:   "top-tracks",
	Short: "Pull the current user's top tracks as the preference signal",
	Long: `Fetch the user's top tracks for the short, medium, and long term time
ranges (10, 20, and 50 tracks respectively), attach audio features, and
write user_top_tracks.csv.

Runs the Spotify OAuth flow in the browser on first use; the token is
cached for later runs.`,
	RunE: runTopTracks,
}

func init() {
	rootCmd.AddCommand(topTracksCmd)
}

func runTopTracks(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	authenticator, err := auth.New()
	if err != nil {
		return fmt.Errorf("creating authenticator: %w", err)
	}
	api, err := authenticator.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	client := spotifyclient.New(api, logger)

	svc := ingest.New(client,
		ingest.WithLogger(logger),
		ingest.WithGenres(cfg.Fetch.WithGenres),
	)
	result, err := svc.BuildUserTopTracks(ctx, client)
	if err != nil {
		return fmt.Errorf("building user top tracks: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := dataset.WriteUserTracks(cfg.UserTopTracksPath(), result.Tracks); err != nil {
		return err
	}

	logger.Info("user top tracks written",
		"path", cfg.UserTopTracksPath(),
		"rows", len(result.Tracks),
		"dropped_missing", result.Dropped.Missing,
		"dropped_out_of_range", result.Dropped.OutOfRange)
	return nil
}
