package recommend

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/moodify-labs/moodify/internal/dataset"
	"github.com/moodify-labs/moodify/internal/mood"
)

// ErrEmptyHistory is returned when the user history has no usable tracks.
var ErrEmptyHistory = errors.New("no usable history tracks")

// Candidate is one recommended track with its similarity score.
type Candidate struct {
	Track dataset.Track
	Score float64
}

// Result is the outcome of one recommendation call. It is rebuilt from
// scratch on every invocation and never persisted.
type Result struct {
	Candidates []Candidate
	// Skipped counts catalog rows excluded before scoring: tracks with an
	// incomplete or out-of-range feature vector, without a mood label, or
	// already present in the user's history.
	Skipped int
}

// Recommend scores the catalog against the user's top-track history and
// selects TopK tracks balanced across mood categories.
//
// Catalog rows without a mood label or a complete in-range feature vector
// are excluded, as are tracks the user already has in their history.
// Scoring standardizes all vectors with statistics fitted on the usable
// catalog plus history so neither metric is dominated by tempo's scale.
func Recommend(history, catalog []dataset.Track, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	historyVecs, historyIDs := usableHistory(history)
	if len(historyVecs) == 0 {
		return nil, ErrEmptyHistory
	}

	candidates, candidateVecs, skipped := usableCatalog(catalog, historyIDs)
	if len(candidates) == 0 {
		return nil, ErrEmptyCatalog
	}

	// Fit standardization over everything being compared.
	all := make([][]float64, 0, len(candidateVecs)+len(historyVecs))
	all = append(all, candidateVecs...)
	all = append(all, historyVecs...)
	scaler := mood.FitScaler(all)

	scaledHistory := make([][]float64, len(historyVecs))
	for i, vec := range historyVecs {
		scaledHistory[i] = scaler.Transform(vec)
	}
	prof := newProfile(scaledHistory, cfg)

	scored := make([]Candidate, len(candidates))
	for i, t := range candidates {
		scored[i] = Candidate{
			Track: t,
			Score: prof.score(scaler.Transform(candidateVecs[i])),
		}
	}

	// Highest score first; equal scores break ties by TrackID so the
	// result is stable across runs.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Track.TrackID < scored[j].Track.TrackID
	})

	return &Result{
		Candidates: selectBalanced(scored, cfg),
		Skipped:    skipped,
	}, nil
}

// selectBalanced walks the score-ordered candidates and takes tracks while
// honoring the per-mood quota implied by MoodBalanceWeight.
//
// With weight 1 the quota is ceil(TopK / moods) where moods counts the
// distinct mood labels present among the candidates; with weight 0 the
// quota is TopK (no constraint); intermediate weights interpolate
// linearly. When the quotas leave slots unfilled and the weight is below
// 1, a second pass fills the remainder in score order.
func selectBalanced(scored []Candidate, cfg Config) []Candidate {
	moods := make(map[dataset.Mood]bool)
	for _, c := range scored {
		moods[c.Track.Mood] = true
	}

	balancedCap := int(math.Ceil(float64(cfg.TopK) / float64(len(moods))))
	moodCap := balancedCap + int((1-cfg.MoodBalanceWeight)*float64(cfg.TopK-balancedCap))

	taken := make([]bool, len(scored))
	moodCounts := make(map[dataset.Mood]int)
	genreCounts := make(map[string]int)

	var selected []Candidate
	for i, c := range scored {
		if len(selected) == cfg.TopK {
			break
		}
		if moodCounts[c.Track.Mood] >= moodCap {
			continue
		}
		genre := primaryGenre(c.Track)
		if cfg.PerGenreCap > 0 && genre != "" && genreCounts[genre] >= cfg.PerGenreCap {
			continue
		}
		taken[i] = true
		moodCounts[c.Track.Mood]++
		genreCounts[genre]++
		selected = append(selected, c)
	}

	// Quotas only bind fully at weight 1; below that, unfilled slots fall
	// back to pure similarity order.
	if len(selected) < cfg.TopK && cfg.MoodBalanceWeight < 1 {
		for i, c := range scored {
			if len(selected) == cfg.TopK {
				break
			}
			if taken[i] {
				continue
			}
			selected = append(selected, c)
		}
	}

	return selected
}

// usableHistory extracts complete feature vectors from the user's history
// and the set of track IDs already known to the user.
func usableHistory(history []dataset.Track) ([][]float64, map[string]bool) {
	ids := make(map[string]bool, len(history))
	var vecs [][]float64
	for _, t := range history {
		ids[t.TrackID] = true
		if vec, ok := t.Features.Vector(); ok && t.Features.InRange() {
			vecs = append(vecs, vec)
		}
	}
	return vecs, ids
}

// usableCatalog filters the catalog down to scorable candidates: labeled,
// complete, in range, and not already in the user's history.
func usableCatalog(catalog []dataset.Track, historyIDs map[string]bool) ([]dataset.Track, [][]float64, int) {
	var tracks []dataset.Track
	var vecs [][]float64
	skipped := 0

	for _, t := range catalog {
		if historyIDs[t.TrackID] || !t.Mood.Valid() {
			skipped++
			continue
		}
		vec, ok := t.Features.Vector()
		if !ok || !t.Features.InRange() {
			skipped++
			continue
		}
		tracks = append(tracks, t)
		vecs = append(vecs, vec)
	}

	return tracks, vecs, skipped
}

// primaryGenre returns the first genre on a track, the convention used
// throughout the pipeline for the track's own genre.
func primaryGenre(t dataset.Track) string {
	if len(t.Genres) == 0 {
		return ""
	}
	return t.Genres[0]
}
