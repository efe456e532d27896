// Package recommend builds mood-balanced, similarity-ranked track
// recommendations from a user's top-track history.
package recommend

import (
	"errors"
	"fmt"
)

// Metric names a similarity metric over the feature space.
type Metric string

// Supported similarity metrics.
const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// Aggregation names how candidate similarity is aggregated against the
// user's history.
type Aggregation string

// Supported aggregation policies.
const (
	// AggregationCentroid scores a candidate against the mean history vector.
	AggregationCentroid Aggregation = "centroid"

	// AggregationNearest scores a candidate as the mean similarity to its
	// k nearest history tracks.
	AggregationNearest Aggregation = "nearest"
)

// ErrEmptyCatalog is returned when no scorable candidates remain after
// filtering.
var ErrEmptyCatalog = errors.New("no scorable catalog tracks")

// Config holds the recommendation policy. Every knob is an explicit input;
// nothing here is persisted between calls.
type Config struct {
	// TopK is the number of tracks to return.
	TopK int

	// MoodBalanceWeight in [0, 1] controls how strictly the result is
	// balanced across moods. 1 enforces an equal per-mood quota of
	// ceil(TopK / moods); 0 is pure similarity order.
	MoodBalanceWeight float64

	// SimilarityMetric selects the candidate/profile similarity.
	SimilarityMetric Metric

	// Aggregation selects how history tracks are aggregated.
	Aggregation Aggregation

	// NearestK is the neighbor count for AggregationNearest.
	NearestK int

	// PerGenreCap limits how many tracks share a primary genre.
	// 0 disables the cap.
	PerGenreCap int
}

// DefaultConfig returns the recommended default configuration.
func DefaultConfig() Config {
	return Config{
		TopK:              20,
		MoodBalanceWeight: 1.0,
		SimilarityMetric:  MetricCosine,
		Aggregation:       AggregationCentroid,
		NearestK:          5,
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.MoodBalanceWeight < 0 || c.MoodBalanceWeight > 1 {
		return fmt.Errorf("mood_balance_weight %v out of [0, 1]", c.MoodBalanceWeight)
	}
	switch c.SimilarityMetric {
	case MetricCosine, MetricEuclidean:
	default:
		return fmt.Errorf("unknown similarity metric %q", c.SimilarityMetric)
	}
	switch c.Aggregation {
	case AggregationCentroid:
	case AggregationNearest:
		if c.NearestK <= 0 {
			return fmt.Errorf("nearest_k must be positive, got %d", c.NearestK)
		}
	default:
		return fmt.Errorf("unknown aggregation %q", c.Aggregation)
	}
	if c.PerGenreCap < 0 {
		return fmt.Errorf("per_genre_cap must not be negative, got %d", c.PerGenreCap)
	}
	return nil
}
