package mood

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// SplitConfig holds train/test split parameters.
type SplitConfig struct {
	TestFraction float64 // fraction of each class held out (default 0.2)
	Seed         int64   // shuffle seed; a fixed seed makes the split reproducible
}

// DefaultSplitConfig returns the recommended default configuration.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{
		TestFraction: 0.2,
		Seed:         42,
	}
}

// StratifiedSplit partitions labeled tracks into train and test sets,
// holding out TestFraction of each mood separately so the test set keeps
// the label distribution of the input. The shuffle is seeded, so the same
// input and config always produce the same split. Every class keeps at
// least one training row.
func StratifiedSplit(tracks []dataset.Track, cfg SplitConfig) (train, test []dataset.Track, err error) {
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %v out of (0, 1)", cfg.TestFraction)
	}

	byMood := make(map[dataset.Mood][]dataset.Track)
	for _, t := range tracks {
		byMood[t.Mood] = append(byMood[t.Mood], t)
	}

	// Iterate moods in a fixed order so the split does not depend on map
	// iteration order.
	moods := make([]dataset.Mood, 0, len(byMood))
	for m := range byMood {
		moods = append(moods, m)
	}
	sort.Slice(moods, func(i, j int) bool { return moods[i] < moods[j] })

	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, m := range moods {
		group := byMood[m]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})

		nTest := int(float64(len(group)) * cfg.TestFraction)
		if nTest >= len(group) {
			nTest = len(group) - 1
		}

		test = append(test, group[:nTest]...)
		train = append(train, group[nTest:]...)
	}

	return train, test, nil
}
