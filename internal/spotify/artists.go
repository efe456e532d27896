package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// FetchArtists retrieves artist names and genres for the given IDs,
// batched at 50 per request. The result is keyed by artist ID; IDs the
// API does not recognize are simply absent from the map.
func (c *Client) FetchArtists(ctx context.Context, artistIDs []string) (map[string]dataset.Artist, error) {
	out := make(map[string]dataset.Artist, len(artistIDs))
	if len(artistIDs) == 0 {
		return out, nil
	}

	// De-duplicate: many tracks share an artist.
	seen := make(map[string]bool, len(artistIDs))
	var ids []spotify.ID
	for _, id := range artistIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, spotify.ID(id))
	}

	total := len(ids)
	for i := 0; i < total; i += maxArtistsPerRequest {
		end := min(i+maxArtistsPerRequest, total)
		batch := ids[i:end]

		c.log.Info("fetching artists", "from", i+1, "to", end, "total", total)

		artists, err := c.api.GetArtists(ctx, batch...)
		if err != nil {
			return nil, fmt.Errorf("fetching artists (batch %d-%d): %w", i+1, end, err)
		}

		for _, a := range artists {
			if a == nil {
				continue
			}
			out[a.ID.String()] = dataset.Artist{
				ArtistID: a.ID.String(),
				Name:     a.Name,
				Genres:   a.Genres,
			}
		}
	}

	return out, nil
}
