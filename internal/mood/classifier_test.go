package mood

import (
	"errors"
	"testing"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// labeledTrack builds a track with a full feature vector in vector order:
// danceability, energy, loudness, speechiness, acousticness,
// instrumentalness, liveness, valence, tempo.
func labeledTrack(id string, mood dataset.Mood, vec [dataset.NumFeatures]float64) dataset.Track {
	return dataset.Track{
		TrackID: id,
		Name:    "Song " + id,
		Mood:    mood,
		Features: dataset.Features{
			Danceability:     dataset.Float64(vec[0]),
			Energy:           dataset.Float64(vec[1]),
			Loudness:         dataset.Float64(vec[2]),
			Speechiness:      dataset.Float64(vec[3]),
			Acousticness:     dataset.Float64(vec[4]),
			Instrumentalness: dataset.Float64(vec[5]),
			Liveness:         dataset.Float64(vec[6]),
			Valence:          dataset.Float64(vec[7]),
			Tempo:            dataset.Float64(vec[8]),
		},
	}
}

// Archetype vectors with clearly separated energy/valence profiles.
var archetypes = map[dataset.Mood][dataset.NumFeatures]float64{
	dataset.MoodHappy:     {0.8, 0.85, -4, 0.05, 0.1, 0.0, 0.1, 0.9, 125},
	dataset.MoodSad:       {0.3, 0.2, -12, 0.04, 0.8, 0.1, 0.1, 0.1, 70},
	dataset.MoodEnergetic: {0.7, 0.95, -3, 0.1, 0.05, 0.2, 0.3, 0.3, 160},
	dataset.MoodCalm:      {0.4, 0.15, -15, 0.03, 0.9, 0.6, 0.1, 0.7, 85},
}

// trainingSet returns two slightly perturbed rows per mood, so each class
// centroid sits at its archetype.
func trainingSet() []dataset.Track {
	var tracks []dataset.Track
	for _, m := range dataset.Moods() {
		base := archetypes[m]

		lo, hi := base, base
		lo[0] -= 0.02
		lo[8] -= 2
		hi[0] += 0.02
		hi[8] += 2

		tracks = append(tracks,
			labeledTrack(string(m)+"-1", m, lo),
			labeledTrack(string(m)+"-2", m, hi),
		)
	}
	return tracks
}

func TestTrain_PredictsArchetypes(t *testing.T) {
	model, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	for mood, vec := range archetypes {
		got, err := model.Predict(vec[:])
		if err != nil {
			t.Fatalf("Predict(%s archetype) error = %v", mood, err)
		}
		if got != mood {
			t.Errorf("Predict(%s archetype) = %q, want %q", mood, got, mood)
		}
	}
}

func TestPredict_Deterministic(t *testing.T) {
	model, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	vec := archetypes[dataset.MoodHappy]
	first, err := model.Predict(vec[:])
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	for i := 0; i < 10; i++ {
		got, err := model.Predict(vec[:])
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if got != first {
			t.Fatalf("Predict() call %d = %q, previous = %q", i+2, got, first)
		}
	}
}

func TestTrain_Deterministic(t *testing.T) {
	m1, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	m2, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	for mood, c1 := range m1.Centroids {
		c2 := m2.Centroids[mood]
		for i := range c1 {
			if c1[i] != c2[i] {
				t.Errorf("centroid %s[%d] differs between runs: %v vs %v", mood, i, c1[i], c2[i])
			}
		}
	}
}

func TestPredict_TieBreaksLexicographically(t *testing.T) {
	// Identical features everywhere put every centroid at the origin, so
	// all distances are equal and the smallest label must win.
	var tracks []dataset.Track
	vec := archetypes[dataset.MoodHappy]
	for _, m := range dataset.Moods() {
		tracks = append(tracks,
			labeledTrack(string(m)+"-1", m, vec),
			labeledTrack(string(m)+"-2", m, vec),
		)
	}

	model, err := Train(tracks)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	got, err := model.Predict(vec[:])
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got != dataset.MoodCalm {
		t.Errorf("Predict() = %q, want %q on all-equal distances", got, dataset.MoodCalm)
	}
}

func TestTrain_EmptyInput(t *testing.T) {
	_, err := Train(nil)
	if !errors.Is(err, ErrEmptyTrainingSet) {
		t.Errorf("Train(nil) error = %v, want ErrEmptyTrainingSet", err)
	}
}

func TestTrain_MissingClass(t *testing.T) {
	// Only happy and sad rows: calm and energetic have no support.
	tracks := []dataset.Track{
		labeledTrack("h1", dataset.MoodHappy, archetypes[dataset.MoodHappy]),
		labeledTrack("s1", dataset.MoodSad, archetypes[dataset.MoodSad]),
	}

	_, err := Train(tracks)
	if !errors.Is(err, ErrMissingClass) {
		t.Errorf("Train() error = %v, want ErrMissingClass", err)
	}
}

func TestTrain_RejectsIncompleteRow(t *testing.T) {
	tracks := trainingSet()
	tracks[0].Features.Valence = nil

	if _, err := Train(tracks); err == nil {
		t.Error("Train() accepted a row with a missing feature")
	}
}

func TestPredict_WrongDimension(t *testing.T) {
	model, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if _, err := model.Predict([]float64{1, 2, 3}); err == nil {
		t.Error("Predict() accepted a 3-dimensional vector")
	}
}

func TestPredictTrack(t *testing.T) {
	model, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	track := labeledTrack("unlabeled", "", archetypes[dataset.MoodSad])
	if err := model.PredictTrack(&track); err != nil {
		t.Fatalf("PredictTrack() error = %v", err)
	}
	if track.Mood != dataset.MoodSad {
		t.Errorf("PredictTrack() labeled %q, want %q", track.Mood, dataset.MoodSad)
	}

	incomplete := track
	incomplete.Features.Tempo = nil
	if err := model.PredictTrack(&incomplete); err == nil {
		t.Error("PredictTrack() accepted an incomplete feature vector")
	}
}

func TestLabels_SortedAndCopied(t *testing.T) {
	model, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	labels := model.Labels()
	want := dataset.Moods()
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("Labels()[%d] = %q, want %q", i, labels[i], want[i])
		}
	}

	labels[0] = "mutated"
	if model.Labels()[0] != want[0] {
		t.Error("Labels() exposes internal slice")
	}
}
