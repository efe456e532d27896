package mood

import (
	"fmt"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// ClassMetrics holds per-mood evaluation results.
type ClassMetrics struct {
	Precision float64 `yaml:"precision"`
	Recall    float64 `yaml:"recall"`
	F1        float64 `yaml:"f1"`
	Support   int     `yaml:"support"` // number of held-out rows with this true label
}

// Evaluation summarizes classifier performance on a held-out set.
type Evaluation struct {
	Accuracy float64                           `yaml:"accuracy"`
	Rows     int                               `yaml:"rows"`
	PerClass map[dataset.Mood]ClassMetrics     `yaml:"per_class"`
	Labels   []dataset.Mood                    `yaml:"labels"`
	// Confusion[i][j] counts rows with true label Labels[i] predicted as
	// Labels[j].
	Confusion [][]int `yaml:"confusion"`
}

// Evaluate runs the model against held-out labeled tracks and computes
// accuracy and per-class precision/recall from the confusion matrix.
func Evaluate(m *Model, test []dataset.Track) (*Evaluation, error) {
	if len(test) == 0 {
		return nil, fmt.Errorf("evaluating: %w", ErrEmptyTrainingSet)
	}

	labels := m.Labels()
	index := make(map[dataset.Mood]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	confusion := make([][]int, len(labels))
	for i := range confusion {
		confusion[i] = make([]int, len(labels))
	}

	correct := 0
	for _, t := range test {
		vec, ok := t.Features.Vector()
		if !ok {
			return nil, fmt.Errorf("track %s: incomplete feature vector", t.TrackID)
		}
		got, err := m.Predict(vec)
		if err != nil {
			return nil, fmt.Errorf("predicting track %s: %w", t.TrackID, err)
		}

		ti, ok := index[t.Mood]
		if !ok {
			return nil, fmt.Errorf("track %s: unknown mood %q", t.TrackID, t.Mood)
		}
		confusion[ti][index[got]]++
		if got == t.Mood {
			correct++
		}
	}

	perClass := make(map[dataset.Mood]ClassMetrics, len(labels))
	for i, label := range labels {
		var truePos, predicted, support int
		for j := range labels {
			support += confusion[i][j]
			predicted += confusion[j][i]
		}
		truePos = confusion[i][i]

		metrics := ClassMetrics{Support: support}
		if predicted > 0 {
			metrics.Precision = float64(truePos) / float64(predicted)
		}
		if support > 0 {
			metrics.Recall = float64(truePos) / float64(support)
		}
		if metrics.Precision+metrics.Recall > 0 {
			metrics.F1 = 2 * metrics.Precision * metrics.Recall / (metrics.Precision + metrics.Recall)
		}
		perClass[label] = metrics
	}

	return &Evaluation{
		Accuracy:  float64(correct) / float64(len(test)),
		Rows:      len(test),
		PerClass:  perClass,
		Labels:    labels,
		Confusion: confusion,
	}, nil
}
