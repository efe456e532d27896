// Package ingest orchestrates dataset acquisition: mood-labeled playlist
// pulls and user top tracks, turned into clean CSV-ready rows.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/moodify-labs/moodify/internal/dataset"
)

// ErrNoUsableTracks is returned when an acquisition run produces zero
// rows with complete features. Partial failures only log and skip; an
// empty result is the one run-level failure.
var ErrNoUsableTracks = errors.New("no usable tracks produced")

// Catalog is the read-only music-catalog surface ingestion needs.
// *spotify.Client satisfies it.
type Catalog interface {
	SearchMoodPlaylists(ctx context.Context, mood string, limit int) ([]string, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]dataset.Track, error)
	FetchAudioFeatures(ctx context.Context, tracks []dataset.Track) error
	FetchArtists(ctx context.Context, artistIDs []string) (map[string]dataset.Artist, error)
}

// UserLibrary is the user-scoped surface for top-track pulls.
// *spotify.Client satisfies it.
type UserLibrary interface {
	FetchUserTopTracks(ctx context.Context) ([]dataset.Track, error)
}

// GenreSource supplies genres for artists the catalog has none for.
type GenreSource interface {
	ArtistGenres(ctx context.Context, artistName string) ([]string, error)
}

// DefaultPlaylistsPerMood is how many playlists are pulled per mood query.
const DefaultPlaylistsPerMood = 5

// Service runs acquisition against a catalog.
type Service struct {
	catalog          Catalog
	genres           GenreSource
	log              *slog.Logger
	playlistsPerMood int
	withGenres       bool
}

// Option configures a Service.
type Option func(*Service)

// WithGenreSource sets a fallback source for artists without catalog genres.
func WithGenreSource(src GenreSource) Option {
	return func(s *Service) { s.genres = src }
}

// WithPlaylistsPerMood sets how many playlists are pulled per mood.
func WithPlaylistsPerMood(n int) Option {
	return func(s *Service) { s.playlistsPerMood = n }
}

// WithGenres enables artist genre lookups during acquisition.
func WithGenres(enabled bool) Option {
	return func(s *Service) { s.withGenres = enabled }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.log = logger }
}

// New creates an acquisition service.
func New(catalog Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:          catalog,
		log:              slog.New(slog.DiscardHandler),
		playlistsPerMood: DefaultPlaylistsPerMood,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is the outcome of one acquisition run.
type Result struct {
	Tracks  []dataset.Track
	Artists []dataset.Artist
	// Dropped counts rows removed for missing or out-of-range features.
	Dropped dataset.DropReport
	// SkippedPlaylists counts playlists that failed to fetch and were
	// skipped without failing the run.
	SkippedPlaylists int
}

// BuildMoodDataset assembles the labeled training dataset: for each mood,
// playlists matching the mood name are searched and their tracks labeled
// with it. Duplicate tracks keep their first label. Rows without a
// complete, in-range feature vector are dropped and counted. Returns
// ErrNoUsableTracks when nothing survives.
func (s *Service) BuildMoodDataset(ctx context.Context, moods []dataset.Mood) (*Result, error) {
	var labeled []dataset.Track
	skippedPlaylists := 0

	for _, mood := range moods {
		playlists, err := s.catalog.SearchMoodPlaylists(ctx, string(mood), s.playlistsPerMood)
		if err != nil {
			return nil, fmt.Errorf("searching playlists for mood %s: %w", mood, err)
		}

		for _, playlistID := range playlists {
			tracks, err := s.catalog.PlaylistTracks(ctx, playlistID)
			if err != nil {
				// One bad playlist must not sink the run.
				s.log.Warn("skipping playlist", "playlist", playlistID, "mood", mood, "error", err)
				skippedPlaylists++
				continue
			}
			for i := range tracks {
				tracks[i].Mood = mood
			}
			labeled = append(labeled, tracks...)
		}
	}

	result, err := s.finish(ctx, dataset.Dedupe(labeled))
	if err != nil {
		return nil, err
	}
	result.SkippedPlaylists = skippedPlaylists
	return result, nil
}

// BuildUserTopTracks assembles the user profile dataset across all top
// track time ranges. A track appearing in several ranges keeps its first
// (shortest-range) row.
func (s *Service) BuildUserTopTracks(ctx context.Context, user UserLibrary) (*Result, error) {
	tracks, err := user.FetchUserTopTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching user top tracks: %w", err)
	}
	return s.finish(ctx, dataset.Dedupe(tracks))
}

// finish is the shared tail of both pulls: audio features, genres, and
// data-quality filtering.
func (s *Service) finish(ctx context.Context, tracks []dataset.Track) (*Result, error) {
	if err := s.catalog.FetchAudioFeatures(ctx, tracks); err != nil {
		return nil, fmt.Errorf("fetching audio features: %w", err)
	}

	var artists []dataset.Artist
	if s.withGenres {
		artists = s.attachGenres(ctx, tracks)
	}

	kept, dropped := dataset.Clean(tracks)
	if dropped.Total() > 0 {
		s.log.Warn("dropped rows with bad features",
			"missing", dropped.Missing, "out_of_range", dropped.OutOfRange)
	}
	if len(kept) == 0 {
		return nil, ErrNoUsableTracks
	}

	return &Result{Tracks: kept, Artists: artists, Dropped: dropped}, nil
}

// attachGenres looks up artist genres and copies them onto each track,
// falling back to the secondary genre source for artists the catalog has
// no genres for. Lookup failures only log; genres are an enrichment, not
// a requirement.
func (s *Service) attachGenres(ctx context.Context, tracks []dataset.Track) []dataset.Artist {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ArtistID)
	}

	artists, err := s.catalog.FetchArtists(ctx, ids)
	if err != nil {
		s.log.Warn("fetching artist genres failed", "error", err)
		return nil
	}

	for i := range tracks {
		a, ok := artists[tracks[i].ArtistID]
		if !ok {
			continue
		}
		if len(a.Genres) == 0 && s.genres != nil {
			genres, err := s.genres.ArtistGenres(ctx, a.Name)
			if err != nil {
				s.log.Warn("genre fallback failed", "artist", a.Name, "error", err)
			} else {
				a.Genres = genres
				artists[a.ArtistID] = a
			}
		}
		tracks[i].Genres = a.Genres
	}

	out := make([]dataset.Artist, 0, len(artists))
	for _, a := range artists {
		out = append(out, a)
	}
	// Stable artists.csv row order across runs.
	sort.Slice(out, func(i, j int) bool { return out[i].ArtistID < out[j].ArtistID })
	return out
}
