package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// TimeRangeLimits maps Spotify top-track time ranges to how many tracks
// to pull for each. Short-term favorites churn quickly, so only a few are
// meaningful; a track still in the long-term top list signals a durable
// preference, so more of those are kept.
var TimeRangeLimits = map[spotify.Range]int{
	spotify.ShortTermRange:  10,
	spotify.MediumTermRange: 20,
	spotify.LongTermRange:   50,
}

// timeRangeOrder fixes iteration order over TimeRangeLimits.
var timeRangeOrder = []spotify.Range{
	spotify.ShortTermRange,
	spotify.MediumTermRange,
	spotify.LongTermRange,
}

// FetchUserTopTracks retrieves the current user's top tracks across all
// three time ranges, tagging each row with its range. Requires a user
// token with the user-top-read scope. Malformed items are skipped.
func (c *Client) FetchUserTopTracks(ctx context.Context) ([]dataset.Track, error) {
	var tracks []dataset.Track

	for _, timeRange := range timeRangeOrder {
		limit := TimeRangeLimits[timeRange]

		page, err := c.api.CurrentUsersTopTracks(ctx, spotify.Limit(limit), spotify.Timerange(timeRange))
		if err != nil {
			return nil, fmt.Errorf("fetching top tracks (%s): %w", timeRange, err)
		}

		skipped := 0
		for _, ft := range page.Tracks {
			t := convertFullTrack(ft)
			if !usable(t) {
				skipped++
				continue
			}
			t.TimeRange = string(timeRange)
			tracks = append(tracks, t)
		}

		if skipped > 0 {
			c.log.Warn("skipped malformed top-track items", "time_range", timeRange, "skipped", skipped)
		}
		c.log.Info("fetched user top tracks", "time_range", timeRange, "count", len(page.Tracks)-skipped)
	}

	return tracks, nil
}
