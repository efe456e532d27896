package mood

import (
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// DiscoverConfig holds unsupervised mood discovery parameters.
type DiscoverConfig struct {
	NumClusters    int // number of clusters (default: one per mood label)
	MinClusterSize int // clusters smaller than this become outliers
}

// DefaultDiscoverConfig returns the recommended default configuration.
func DefaultDiscoverConfig() DiscoverConfig {
	return DiscoverConfig{
		NumClusters:    len(dataset.Moods()),
		MinClusterSize: 3,
	}
}

// Cluster is a group of tracks with similar audio features, labeled with
// the mood its centroid falls into.
type Cluster struct {
	Mood     dataset.Mood
	Centroid map[string]float64 // feature name -> centroid value
	Tracks   []dataset.Track
}

// trackObservation wraps a track to implement clusters.Observation.
type trackObservation struct {
	track  *dataset.Track
	coords clusters.Coordinates
}

func (o trackObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o trackObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Discover groups unlabeled tracks into mood clusters with k-means and
// names each cluster by its energy/valence centroid. It bootstraps mood
// labels for a catalog when no curated labeled set exists. Tracks with
// incomplete features come back as outliers, as does everything when the
// input is smaller than the cluster count.
func Discover(tracks []dataset.Track, cfg DiscoverConfig) ([]Cluster, []dataset.Track, error) {
	if len(tracks) == 0 {
		return nil, nil, nil
	}
	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultDiscoverConfig().NumClusters
	}

	var valid []*dataset.Track
	var outliers []dataset.Track
	for i := range tracks {
		t := &tracks[i]
		if t.Features.Complete() {
			valid = append(valid, t)
		} else {
			outliers = append(outliers, *t)
		}
	}

	if len(valid) < cfg.NumClusters {
		for _, t := range valid {
			outliers = append(outliers, *t)
		}
		return nil, outliers, nil
	}

	var obs clusters.Observations
	for _, t := range valid {
		vec, _ := t.Features.Vector()
		obs = append(obs, trackObservation{track: t, coords: clusters.Coordinates(vec)})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		return nil, nil, fmt.Errorf("partitioning tracks: %w", err)
	}

	var out []Cluster
	for _, c := range result {
		var clusterTracks []dataset.Track
		for _, o := range c.Observations {
			if to, ok := o.(trackObservation); ok {
				clusterTracks = append(clusterTracks, *to.track)
			}
		}

		if len(clusterTracks) < cfg.MinClusterSize {
			outliers = append(outliers, clusterTracks...)
			continue
		}

		centroid := make(map[string]float64, dataset.NumFeatures)
		for i, name := range dataset.FeatureNames {
			if i < len(c.Center) {
				centroid[name] = c.Center[i]
			}
		}

		mood := moodForCentroid(centroid)
		for i := range clusterTracks {
			clusterTracks[i].Mood = mood
		}

		out = append(out, Cluster{
			Mood:     mood,
			Centroid: centroid,
			Tracks:   clusterTracks,
		})
	}

	return out, outliers, nil
}

// moodForCentroid maps a feature centroid onto the closed mood label set
// using an energy/valence quadrant scheme:
//
//   - high energy + high valence = happy
//   - high energy + low valence  = energetic
//   - low energy  + high valence = calm
//   - low energy  + low valence  = sad
func moodForCentroid(centroid map[string]float64) dataset.Mood {
	highEnergy := centroid["energy"] > 0.6
	highValence := centroid["valence"] > 0.5

	switch {
	case highEnergy && highValence:
		return dataset.MoodHappy
	case highEnergy && !highValence:
		return dataset.MoodEnergetic
	case !highEnergy && highValence:
		return dataset.MoodCalm
	default:
		return dataset.MoodSad
	}
}
