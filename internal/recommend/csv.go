package recommend

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteCSV writes a ranked candidate list to path. This is a convenience
// artifact for eyeballing a run; nothing reads it back.
func WriteCSV(path string, candidates []Candidate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"rank", "track_id", "track_name", "artist_name", "mood", "score"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, c := range candidates {
		record := []string{
			strconv.Itoa(i + 1),
			c.Track.TrackID,
			c.Track.Name,
			c.Track.ArtistName,
			string(c.Track.Mood),
			strconv.FormatFloat(c.Score, 'f', 6, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing rank %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
