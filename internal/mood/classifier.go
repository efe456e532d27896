// Package mood trains and evaluates the song mood classifier.
package mood

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// Fatal training errors. Either halts the stage before anything downstream
// can consume the model.
var (
	// ErrEmptyTrainingSet is returned when no usable rows remain after cleaning.
	ErrEmptyTrainingSet = errors.New("empty training set")

	// ErrMissingClass is returned when a mood label has no training rows.
	ErrMissingClass = errors.New("mood has no training rows")
)

// Model is a nearest-centroid classifier over standardized audio features.
// Each mood contributes one centroid computed from its own rows only, so a
// dominant class cannot pull the decision boundary toward itself the way a
// frequency-weighted vote would.
type Model struct {
	// Scaler holds the standardization statistics fitted on training rows.
	Scaler *Scaler

	// Centroids maps each mood to its class centroid in standardized space.
	Centroids map[dataset.Mood][]float64

	// labels holds the moods in lexicographic order; Predict iterates in
	// this order so equal distances break ties deterministically.
	labels []dataset.Mood
}

// Train fits a model on labeled tracks. Every track must carry a valid
// mood label and a complete feature vector (see dataset.CleanLabeled).
// Returns ErrEmptyTrainingSet for an empty input and ErrMissingClass when
// any known mood has no rows.
func Train(tracks []dataset.Track) (*Model, error) {
	if len(tracks) == 0 {
		return nil, ErrEmptyTrainingSet
	}

	vectors := make([][]float64, len(tracks))
	for i, t := range tracks {
		vec, ok := t.Features.Vector()
		if !ok {
			return nil, fmt.Errorf("track %s: incomplete feature vector", t.TrackID)
		}
		if !t.Mood.Valid() {
			return nil, fmt.Errorf("track %s: invalid mood %q", t.TrackID, t.Mood)
		}
		vectors[i] = vec
	}

	scaler := FitScaler(vectors)

	sums := make(map[dataset.Mood][]float64)
	counts := make(map[dataset.Mood]int)
	for i, t := range tracks {
		z := scaler.Transform(vectors[i])
		if sums[t.Mood] == nil {
			sums[t.Mood] = make([]float64, dataset.NumFeatures)
		}
		floats.Add(sums[t.Mood], z)
		counts[t.Mood]++
	}

	centroids := make(map[dataset.Mood][]float64, len(sums))
	for _, m := range dataset.Moods() {
		if counts[m] == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingClass, m)
		}
		c := sums[m]
		floats.Scale(1/float64(counts[m]), c)
		centroids[m] = c
	}

	labels := dataset.Moods()
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	return &Model{
		Scaler:    scaler,
		Centroids: centroids,
		labels:    labels,
	}, nil
}

// Predict returns the mood whose centroid is nearest to the feature vector.
// It is pure: no randomness, no mutation of the model. Equal distances
// resolve to the lexicographically smallest mood.
func (m *Model) Predict(features []float64) (dataset.Mood, error) {
	if len(features) != dataset.NumFeatures {
		return "", fmt.Errorf("feature vector has %d values, want %d", len(features), dataset.NumFeatures)
	}

	z := m.Scaler.Transform(features)

	var best dataset.Mood
	bestDist := 0.0
	for i, label := range m.labels {
		d := floats.Distance(z, m.Centroids[label], 2)
		if i == 0 || d < bestDist {
			best = label
			bestDist = d
		}
	}
	return best, nil
}

// PredictTrack labels a single track in place.
func (m *Model) PredictTrack(t *dataset.Track) error {
	vec, ok := t.Features.Vector()
	if !ok {
		return fmt.Errorf("track %s: incomplete feature vector", t.TrackID)
	}
	mood, err := m.Predict(vec)
	if err != nil {
		return err
	}
	t.Mood = mood
	return nil
}

// Labels returns the moods the model can predict, in tie-break order.
func (m *Model) Labels() []dataset.Mood {
	out := make([]dataset.Mood, len(m.labels))
	copy(out, m.labels)
	return out
}
