// Package spotify wraps the Spotify Web API for catalog and user pulls.
package spotify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// Request batch limits imposed by the Spotify Web API.
const (
	maxTracksPerRequest  = 100
	maxArtistsPerRequest = 50
)

// Client wraps the Spotify API client with pipeline-shaped methods.
type Client struct {
	api *spotify.Client
	log *slog.Logger
}

// New creates a Client. The underlying client must already be
// authenticated; a nil logger discards progress output.
func New(api *spotify.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{api: api, log: logger}
}

// UserID returns the current user's Spotify ID. Requires a user token.
func (c *Client) UserID(ctx context.Context) (string, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("getting current user: %w", err)
	}
	return user.ID, nil
}

// convertFullTrack maps a Spotify track onto the dataset schema.
// Only the first artist is treated as the track's artist, matching how the
// datasets key genre lookups.
func convertFullTrack(ft spotify.FullTrack) dataset.Track {
	t := dataset.Track{
		TrackID:    ft.ID.String(),
		Name:       ft.Name,
		AlbumID:    ft.Album.ID.String(),
		AlbumName:  ft.Album.Name,
		Popularity: int(ft.Popularity),
	}
	if len(ft.Artists) > 0 {
		t.ArtistID = ft.Artists[0].ID.String()
		t.ArtistName = ft.Artists[0].Name
	}
	return t
}

// usable reports whether a track has the identifiers every downstream
// stage keys on. Items without them are malformed and get skipped.
func usable(t dataset.Track) bool {
	return t.TrackID != "" && t.ArtistID != "" && strings.TrimSpace(t.Name) != ""
}
