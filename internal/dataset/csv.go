package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrSchemaMismatch is returned when a CSV header does not match the
// expected column layout for the file being read.
var ErrSchemaMismatch = errors.New("csv schema mismatch")

// baseColumns is the shared column layout of song_mood_data.csv and
// tracks.csv. user_top_tracks.csv appends a time_range column.
var baseColumns = []string{
	"track_id", "track_name", "artist_id", "artist_name",
	"album_id", "album_name", "popularity", "genres", "mood",
	"danceability", "energy", "loudness", "speechiness", "acousticness",
	"instrumentalness", "liveness", "valence", "tempo",
}

var artistColumns = []string{"artist_id", "name", "genres"}

const genreSeparator = ";"

// WriteTracks writes tracks to path using the shared track schema.
// Used for song_mood_data.csv and tracks.csv.
func WriteTracks(path string, tracks []Track) error {
	return writeTracks(path, tracks, false)
}

// WriteUserTracks writes user top tracks to path, including the
// time_range column.
func WriteUserTracks(path string, tracks []Track) error {
	return writeTracks(path, tracks, true)
}

func writeTracks(path string, tracks []Track, withTimeRange bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := baseColumns
	if withTimeRange {
		header = append(append([]string{}, baseColumns...), "time_range")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, t := range tracks {
		record := []string{
			t.TrackID,
			t.Name,
			t.ArtistID,
			t.ArtistName,
			t.AlbumID,
			t.AlbumName,
			strconv.Itoa(t.Popularity),
			strings.Join(t.Genres, genreSeparator),
			string(t.Mood),
			formatFeature(t.Features.Danceability),
			formatFeature(t.Features.Energy),
			formatFeature(t.Features.Loudness),
			formatFeature(t.Features.Speechiness),
			formatFeature(t.Features.Acousticness),
			formatFeature(t.Features.Instrumentalness),
			formatFeature(t.Features.Liveness),
			formatFeature(t.Features.Valence),
			formatFeature(t.Features.Tempo),
		}
		if withTimeRange {
			record = append(record, t.TimeRange)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing track %s: %w", t.TrackID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// ReadTracks reads a track CSV written by WriteTracks or WriteUserTracks.
// The header is checked against the expected schema; the time_range column
// is detected from the header. Returns ErrSchemaMismatch on layout drift.
func ReadTracks(path string) ([]Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	withTimeRange, err := checkTrackHeader(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var tracks []Track
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s line %d: %w", path, line+1, err)
		}
		line++

		t, err := parseTrack(record, withTimeRange)
		if err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", path, line, err)
		}
		tracks = append(tracks, t)
	}

	return tracks, nil
}

// WriteArtists writes artists.csv.
func WriteArtists(path string, artists []Artist) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(artistColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, a := range artists {
		record := []string{a.ArtistID, a.Name, strings.Join(a.Genres, genreSeparator)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing artist %s: %w", a.ArtistID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// ReadArtists reads artists.csv.
func ReadArtists(path string) ([]Artist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	if len(header) != len(artistColumns) {
		return nil, fmt.Errorf("%s: %w: got %d columns, want %d", path, ErrSchemaMismatch, len(header), len(artistColumns))
	}
	for i, col := range artistColumns {
		if header[i] != col {
			return nil, fmt.Errorf("%s: %w: column %d is %q, want %q", path, ErrSchemaMismatch, i, header[i], col)
		}
	}

	var artists []Artist
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		artists = append(artists, Artist{
			ArtistID: record[0],
			Name:     record[1],
			Genres:   splitGenres(record[2]),
		})
	}
	return artists, nil
}

// checkTrackHeader validates a track file header and reports whether the
// optional trailing time_range column is present.
func checkTrackHeader(header []string) (withTimeRange bool, err error) {
	switch len(header) {
	case len(baseColumns):
	case len(baseColumns) + 1:
		if header[len(baseColumns)] != "time_range" {
			return false, fmt.Errorf("%w: trailing column is %q, want \"time_range\"", ErrSchemaMismatch, header[len(baseColumns)])
		}
		withTimeRange = true
	default:
		return false, fmt.Errorf("%w: got %d columns, want %d or %d", ErrSchemaMismatch, len(header), len(baseColumns), len(baseColumns)+1)
	}

	for i, col := range baseColumns {
		if header[i] != col {
			return false, fmt.Errorf("%w: column %d is %q, want %q", ErrSchemaMismatch, i, header[i], col)
		}
	}
	return withTimeRange, nil
}

func parseTrack(record []string, withTimeRange bool) (Track, error) {
	want := len(baseColumns)
	if withTimeRange {
		want++
	}
	if len(record) != want {
		return Track{}, fmt.Errorf("got %d fields, want %d", len(record), want)
	}

	popularity := 0
	if record[6] != "" {
		p, err := strconv.Atoi(record[6])
		if err != nil {
			return Track{}, fmt.Errorf("popularity: %w", err)
		}
		popularity = p
	}

	features := Features{}
	dests := []**float64{
		&features.Danceability, &features.Energy, &features.Loudness,
		&features.Speechiness, &features.Acousticness, &features.Instrumentalness,
		&features.Liveness, &features.Valence, &features.Tempo,
	}
	for i, dest := range dests {
		cell := record[9+i]
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Track{}, fmt.Errorf("%s: %w", baseColumns[9+i], err)
		}
		*dest = &v
	}

	t := Track{
		TrackID:    record[0],
		Name:       record[1],
		ArtistID:   record[2],
		ArtistName: record[3],
		AlbumID:    record[4],
		AlbumName:  record[5],
		Popularity: popularity,
		Genres:     splitGenres(record[7]),
		Mood:       Mood(record[8]),
		Features:   features,
	}
	if withTimeRange {
		t.TimeRange = record[len(baseColumns)]
	}
	return t, nil
}

func formatFeature(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func splitGenres(cell string) []string {
	if cell == "" {
		return nil
	}
	return strings.Split(cell, genreSeparator)
}
