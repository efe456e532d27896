package mood

import (
	"gonum.org/v1/gonum/stat"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// Scaler standardizes feature vectors to zero mean and unit deviation
// using statistics fitted on one set of rows. Fitting on training rows and
// applying to everything else keeps held-out data out of the statistics.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-feature statistics over the given vectors.
// A zero deviation (constant column) is replaced by 1 so the column maps
// to zero instead of dividing by zero.
func FitScaler(vectors [][]float64) *Scaler {
	mean := make([]float64, dataset.NumFeatures)
	std := make([]float64, dataset.NumFeatures)

	column := make([]float64, len(vectors))
	for j := 0; j < dataset.NumFeatures; j++ {
		for i, vec := range vectors {
			column[i] = vec[j]
		}
		mean[j] = stat.Mean(column, nil)
		std[j] = stat.StdDev(column, nil)
		if len(vectors) < 2 || std[j] == 0 {
			std[j] = 1
		}
	}

	return &Scaler{Mean: mean, Std: std}
}

// Transform returns (v - mean) / std without mutating v.
func (s *Scaler) Transform(v []float64) []float64 {
	z := make([]float64, len(v))
	for i := range v {
		z[i] = (v[i] - s.Mean[i]) / s.Std[i]
	}
	return z
}
