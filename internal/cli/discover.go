package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moodify-labs/moodify/internal/dataset"
	"github.com/moodify-labs/moodify/internal/mood"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Cluster an unlabeled catalog into mood groups",
	Long: `Group the tracks in tracks.csv by audio-feature similarity with
k-means and name each cluster by its energy/valence centroid. Useful for
bootstrapping mood labels when no curated labeled dataset exists yet.
With --write, the discovered labels are written back to tracks.csv.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().Int("clusters", 0, "number of clusters (default: one per mood)")
	discoverCmd.Flags().Bool("write", false, "write discovered mood labels back to tracks.csv")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	tracks, err := dataset.ReadTracks(cfg.TracksPath())
	if err != nil {
		return err
	}

	discoverCfg := mood.DefaultDiscoverConfig()
	if n := v.GetInt("discover.clusters"); n > 0 {
		discoverCfg.NumClusters = n
	}

	clusters, outliers, err := mood.Discover(tracks, discoverCfg)
	if err != nil {
		return fmt.Errorf("discovering moods: %w", err)
	}

	for _, c := range clusters {
		logger.Info("mood cluster", "mood", c.Mood,
			"tracks", len(c.Tracks),
			"energy", fmt.Sprintf("%.2f", c.Centroid["energy"]),
			"valence", fmt.Sprintf("%.2f", c.Centroid["valence"]))
	}
	if len(outliers) > 0 {
		logger.Info("outlier tracks", "count", len(outliers))
	}

	if !v.GetBool("discover.write") {
		return nil
	}

	// Rewrite tracks.csv with cluster labels; outliers keep no label.
	labeled := make([]dataset.Track, 0, len(tracks))
	for _, c := range clusters {
		labeled = append(labeled, c.Tracks...)
	}
	labeled = append(labeled, outliers...)
	if err := dataset.WriteTracks(cfg.TracksPath(), labeled); err != nil {
		return err
	}
	logger.Info("labels written", "path", cfg.TracksPath(), "labeled", len(labeled)-len(outliers))
	return nil
}
