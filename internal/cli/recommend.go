package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moodify-labs/moodify/internal/dataset"
	"github.com/moodify-labs/moodify/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Produce a mood-balanced recommendation list",
	Long: `Train the classifier on song_mood_data.csv, predict moods for the
catalog, score every candidate against the user's top tracks, and select a
list balanced across mood categories.

The catalog is tracks.csv when present, otherwise the labeled dataset
itself. Every call is stateless: nothing from previous runs is reused.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().Int("top-k", 20, "number of tracks to recommend")
	recommendCmd.Flags().Float64("mood-balance-weight", 1.0, "mood balance strictness in [0,1]")
	recommendCmd.Flags().String("similarity-metric", "cosine", "similarity metric (cosine, euclidean)")
	recommendCmd.Flags().String("aggregation", "centroid", "history aggregation (centroid, nearest)")
	recommendCmd.Flags().Int("nearest-k", 5, "neighbor count for nearest aggregation")
	recommendCmd.Flags().Int("per-genre-cap", 0, "max tracks per primary genre (0 disables)")
	recommendCmd.Flags().String("output", "", "optional CSV output path")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	history, err := dataset.ReadTracks(cfg.UserTopTracksPath())
	if err != nil {
		return err
	}

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	// Model failures are fatal here: recommendations must not run over a
	// catalog with unlabeled or stale moods.
	model, _, err := trainModel()
	if err != nil {
		return err
	}

	predicted := 0
	for i := range catalog {
		if catalog[i].Mood.Valid() || !catalog[i].Features.Complete() {
			continue
		}
		if err := model.PredictTrack(&catalog[i]); err != nil {
			return fmt.Errorf("predicting catalog moods: %w", err)
		}
		predicted++
	}
	if predicted > 0 {
		logger.Info("predicted catalog moods", "tracks", predicted)
	}

	recCfg := recommend.Config{
		TopK:              cfg.Recommend.TopK,
		MoodBalanceWeight: cfg.Recommend.MoodBalanceWeight,
		SimilarityMetric:  recommend.Metric(cfg.Recommend.SimilarityMetric),
		Aggregation:       recommend.Aggregation(cfg.Recommend.Aggregation),
		NearestK:          cfg.Recommend.NearestK,
		PerGenreCap:       cfg.Recommend.PerGenreCap,
	}
	result, err := recommend.Recommend(history, catalog, recCfg)
	if err != nil {
		return fmt.Errorf("recommending: %w", err)
	}

	for i, c := range result.Candidates {
		fmt.Printf("%2d. [%-9s] %-40s %-25s %.4f\n",
			i+1, c.Track.Mood, truncate(c.Track.Name, 40), truncate(c.Track.ArtistName, 25), c.Score)
	}
	logger.Info("recommendations built",
		"count", len(result.Candidates),
		"skipped_catalog_rows", result.Skipped)

	if cfg.Recommend.Output != "" {
		if err := recommend.WriteCSV(cfg.Recommend.Output, result.Candidates); err != nil {
			return err
		}
		logger.Info("recommendations written", "path", cfg.Recommend.Output)
	}
	return nil
}

// loadCatalog prefers tracks.csv and falls back to the labeled dataset.
func loadCatalog() ([]dataset.Track, error) {
	if _, err := os.Stat(cfg.TracksPath()); err == nil {
		return dataset.ReadTracks(cfg.TracksPath())
	}
	logger.Info("no catalog file, recommending from the labeled dataset",
		"missing", cfg.TracksPath())
	return dataset.ReadTracks(cfg.SongMoodPath())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
