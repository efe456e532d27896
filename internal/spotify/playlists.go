package spotify

import (
	"context"
	"errors"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// SearchMoodPlaylists searches for playlists named after a mood and
// returns up to limit playlist IDs. This mirrors how the labeled dataset
// is curated: a playlist titled "happy" is taken as a human mood
// annotation for its tracks.
func (c *Client) SearchMoodPlaylists(ctx context.Context, mood string, limit int) ([]string, error) {
	result, err := c.api.Search(ctx, mood, spotify.SearchTypePlaylist, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("searching playlists for %q: %w", mood, err)
	}
	if result.Playlists == nil {
		return nil, nil
	}

	ids := make([]string, 0, len(result.Playlists.Playlists))
	for _, p := range result.Playlists.Playlists {
		if p.ID == "" {
			continue
		}
		ids = append(ids, p.ID.String())
	}

	c.log.Debug("found mood playlists", "mood", mood, "count", len(ids))
	return ids, nil
}

// PlaylistTracks returns the tracks of a playlist. Episode items and
// malformed entries (no ID, no artist) are skipped, not errors: a single
// bad playlist item must not sink the batch.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]dataset.Track, error) {
	page, err := c.api.GetPlaylistItems(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("fetching playlist %s: %w", playlistID, err)
	}

	var tracks []dataset.Track
	skipped := 0
	for {
		for _, item := range page.Items {
			if item.Track.Track == nil {
				skipped++
				continue
			}
			t := convertFullTrack(*item.Track.Track)
			if !usable(t) {
				skipped++
				continue
			}
			tracks = append(tracks, t)
		}

		err = c.api.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching playlist %s next page: %w", playlistID, err)
		}
	}

	if skipped > 0 {
		c.log.Warn("skipped malformed playlist items", "playlist", playlistID, "skipped", skipped)
	}
	c.log.Debug("fetched playlist tracks", "playlist", playlistID, "tracks", len(tracks))
	return tracks, nil
}
