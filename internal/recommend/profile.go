package recommend

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// profile is the user's aggregated preference signal in standardized
// feature space. It is read-only once built.
type profile struct {
	metric  Metric
	agg     Aggregation
	k       int
	history [][]float64 // standardized history vectors
	center  []float64   // mean history vector
}

// newProfile aggregates standardized history vectors.
func newProfile(history [][]float64, cfg Config) *profile {
	center := make([]float64, len(history[0]))
	for _, vec := range history {
		floats.Add(center, vec)
	}
	floats.Scale(1/float64(len(history)), center)

	return &profile{
		metric:  cfg.SimilarityMetric,
		agg:     cfg.Aggregation,
		k:       cfg.NearestK,
		history: history,
		center:  center,
	}
}

// score returns the candidate's similarity to the profile.
func (p *profile) score(candidate []float64) float64 {
	if p.agg == AggregationNearest {
		return p.nearestScore(candidate)
	}
	return similarity(p.metric, candidate, p.center)
}

// nearestScore averages the candidate's similarity to its k most similar
// history tracks.
func (p *profile) nearestScore(candidate []float64) float64 {
	sims := make([]float64, len(p.history))
	for i, vec := range p.history {
		sims[i] = similarity(p.metric, candidate, vec)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sims)))

	k := p.k
	if k > len(sims) {
		k = len(sims)
	}

	sum := 0.0
	for _, s := range sims[:k] {
		sum += s
	}
	return sum / float64(k)
}
