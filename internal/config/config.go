// Package config defines the typed application configuration and its
// viper wiring. Precedence: flags > MOODIFY_* environment > config file >
// defaults.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// Canonical dataset file names. Downstream stages key on these.
const (
	SongMoodFile      = "song_mood_data.csv"
	UserTopTracksFile = "user_top_tracks.csv"
	TracksFile        = "tracks.csv"
	ArtistsFile       = "artists.csv"
)

// Config is the application configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`

	Fetch     FetchConfig     `mapstructure:"fetch"`
	Train     TrainConfig     `mapstructure:"train"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// FetchConfig controls dataset acquisition.
type FetchConfig struct {
	Moods            []string `mapstructure:"moods"`
	PlaylistsPerMood int      `mapstructure:"playlists_per_mood"`
	WithGenres       bool     `mapstructure:"with_genres"`
	// GenreFallback enables the Last.fm lookup for artists Spotify has no
	// genres for. Requires LASTFM_API_KEY.
	GenreFallback bool `mapstructure:"genre_fallback"`
}

// TrainConfig controls the classifier stage.
type TrainConfig struct {
	TestFraction float64 `mapstructure:"test_fraction"`
	Seed         int64   `mapstructure:"seed"`
	ReportPath   string  `mapstructure:"report_path"`
}

// RecommendConfig controls the recommendation stage.
type RecommendConfig struct {
	TopK              int     `mapstructure:"top_k"`
	MoodBalanceWeight float64 `mapstructure:"mood_balance_weight"`
	SimilarityMetric  string  `mapstructure:"similarity_metric"`
	Aggregation       string  `mapstructure:"aggregation"`
	NearestK          int     `mapstructure:"nearest_k"`
	PerGenreCap       int     `mapstructure:"per_genre_cap"`
	Output            string  `mapstructure:"output"`
}

// SetDefaults registers default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "data")

	moods := make([]string, 0, len(dataset.Moods()))
	for _, m := range dataset.Moods() {
		moods = append(moods, string(m))
	}
	v.SetDefault("fetch.moods", moods)
	v.SetDefault("fetch.playlists_per_mood", 5)
	v.SetDefault("fetch.with_genres", false)
	v.SetDefault("fetch.genre_fallback", false)

	v.SetDefault("train.test_fraction", 0.2)
	v.SetDefault("train.seed", 42)
	v.SetDefault("train.report_path", "model_report.yaml")

	v.SetDefault("recommend.top_k", 20)
	v.SetDefault("recommend.mood_balance_weight", 1.0)
	v.SetDefault("recommend.similarity_metric", "cosine")
	v.SetDefault("recommend.aggregation", "centroid")
	v.SetDefault("recommend.nearest_k", 5)
	v.SetDefault("recommend.per_genre_cap", 0)
	v.SetDefault("recommend.output", "")
}

// Load unmarshals and validates the configuration.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks for values no stage could run with.
func (c *Config) Validate() error {
	for _, m := range c.Fetch.Moods {
		if !dataset.Mood(m).Valid() {
			return fmt.Errorf("unknown mood %q in fetch.moods", m)
		}
	}
	if c.Fetch.PlaylistsPerMood <= 0 {
		return fmt.Errorf("fetch.playlists_per_mood must be positive, got %d", c.Fetch.PlaylistsPerMood)
	}
	if c.Train.TestFraction <= 0 || c.Train.TestFraction >= 1 {
		return fmt.Errorf("train.test_fraction %v out of (0, 1)", c.Train.TestFraction)
	}
	return nil
}

// Moods returns fetch.moods as typed labels.
func (c *Config) Moods() []dataset.Mood {
	out := make([]dataset.Mood, len(c.Fetch.Moods))
	for i, m := range c.Fetch.Moods {
		out[i] = dataset.Mood(m)
	}
	return out
}

// Dataset paths under DataDir.

func (c *Config) SongMoodPath() string      { return filepath.Join(c.DataDir, SongMoodFile) }
func (c *Config) UserTopTracksPath() string { return filepath.Join(c.DataDir, UserTopTracksFile) }
func (c *Config) TracksPath() string        { return filepath.Join(c.DataDir, TracksFile) }
func (c *Config) ArtistsPath() string       { return filepath.Join(c.DataDir, ArtistsFile) }
