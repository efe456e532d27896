package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// FetchAudioFeatures retrieves audio features for the given tracks and
// fills them in place. Requests are batched at 100 tracks per the Spotify
// API limit. Tracks the API has no features for keep nil feature fields;
// the caller decides whether to drop them (dataset.Clean does).
func (c *Client) FetchAudioFeatures(ctx context.Context, tracks []dataset.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(tracks))
	indexByID := make(map[string]int, len(tracks))
	for i, t := range tracks {
		ids[i] = spotify.ID(t.TrackID)
		indexByID[t.TrackID] = i
	}

	total := len(ids)
	for i := 0; i < total; i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, total)
		batch := ids[i:end]

		c.log.Info("fetching audio features", "from", i+1, "to", end, "total", total)

		features, err := c.api.GetAudioFeatures(ctx, batch...)
		if err != nil {
			return fmt.Errorf("fetching audio features (batch %d-%d): %w", i+1, end, err)
		}

		for _, f := range features {
			if f == nil {
				continue // track has no audio features
			}
			idx, ok := indexByID[f.ID.String()]
			if !ok {
				continue
			}
			tracks[idx].Features = convertAudioFeatures(f)
		}
	}

	return nil
}

// convertAudioFeatures copies API feature values into the dataset schema.
func convertAudioFeatures(f *spotify.AudioFeatures) dataset.Features {
	return dataset.Features{
		Danceability:     dataset.Float64(float64(f.Danceability)),
		Energy:           dataset.Float64(float64(f.Energy)),
		Loudness:         dataset.Float64(float64(f.Loudness)),
		Speechiness:      dataset.Float64(float64(f.Speechiness)),
		Acousticness:     dataset.Float64(float64(f.Acousticness)),
		Instrumentalness: dataset.Float64(float64(f.Instrumentalness)),
		Liveness:         dataset.Float64(float64(f.Liveness)),
		Valence:          dataset.Float64(float64(f.Valence)),
		Tempo:            dataset.Float64(float64(f.Tempo)),
	}
}
