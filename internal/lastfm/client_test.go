package lastfm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testClient points a client at a test server and zeroes the retry delays.
func testClient(srv *httptest.Server) *Client {
	c := NewClient(&Config{APIKey: "test-key"})
	c.baseURL = srv.URL
	c.retryDelays = []time.Duration{0, 0, 0}
	return c
}

const topTagsBody = `{
	"toptags": {
		"tag": [
			{"name": "Shoegaze", "count": 100, "url": "u"},
			{"name": "Dream Pop", "count": 80, "url": "u"},
			{"name": "  ", "count": 70, "url": "u"},
			{"name": "indie", "count": 60, "url": "u"},
			{"name": "rock", "count": 50, "url": "u"},
			{"name": "alternative", "count": 40, "url": "u"},
			{"name": "electronic", "count": 30, "url": "u"}
		],
		"@attr": {"artist": "Test Artist"}
	}
}`

func TestArtistGenres(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("method"); got != "artist.getTopTags" {
			t.Errorf("method = %q, want artist.getTopTags", got)
		}
		if got := r.URL.Query().Get("artist"); got != "Test Artist" {
			t.Errorf("artist = %q, want Test Artist", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q, want test-key", got)
		}
		fmt.Fprint(w, topTagsBody)
	}))
	defer srv.Close()

	c := testClient(srv)
	genres, err := c.ArtistGenres(context.Background(), "Test Artist")
	if err != nil {
		t.Fatalf("ArtistGenres() error = %v", err)
	}

	// Lowercased, blank tags skipped, capped at five.
	want := []string{"shoegaze", "dream pop", "indie", "rock", "alternative"}
	if len(genres) != len(want) {
		t.Fatalf("genres = %v, want %v", genres, want)
	}
	for i := range want {
		if genres[i] != want[i] {
			t.Errorf("genres[%d] = %q, want %q", i, genres[i], want[i])
		}
	}
}

func TestArtistGenres_NoTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"toptags": {"tag": [], "@attr": {"artist": "Nobody"}}}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	genres, err := c.ArtistGenres(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("ArtistGenres() error = %v", err)
	}
	if genres == nil {
		t.Error("ArtistGenres() = nil, want empty slice")
	}
	if len(genres) != 0 {
		t.Errorf("genres = %v, want none", genres)
	}
}

func TestArtistGenres_CachesResults(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, topTagsBody)
	}))
	defer srv.Close()

	c := testClient(srv)
	for i := 0; i < 3; i++ {
		if _, err := c.ArtistGenres(context.Background(), "Test Artist"); err != nil {
			t.Fatalf("ArtistGenres() call %d error = %v", i+1, err)
		}
	}

	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (later calls served from cache)", hits)
	}
}

func TestArtistGenres_RetriesOnRateLimit(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			fmt.Fprint(w, `{"error": 29, "message": "Rate limit exceeded"}`)
			return
		}
		fmt.Fprint(w, topTagsBody)
	}))
	defer srv.Close()

	c := testClient(srv)
	genres, err := c.ArtistGenres(context.Background(), "Test Artist")
	if err != nil {
		t.Fatalf("ArtistGenres() error = %v", err)
	}
	if hits != 2 {
		t.Errorf("server hits = %d, want 2 (one retry)", hits)
	}
	if len(genres) == 0 {
		t.Error("ArtistGenres() returned no genres after retry")
	}
}

func TestArtistGenres_RateLimitExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": 29, "message": "Rate limit exceeded"}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	_, err := c.ArtistGenres(context.Background(), "Test Artist")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("ArtistGenres() error = %v, want ErrRateLimited", err)
	}
}

func TestArtistGenres_InvalidAPIKey(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"error": 10, "message": "Invalid API key"}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	_, err := c.ArtistGenres(context.Background(), "Test Artist")
	if !errors.Is(err, ErrInvalidAPIKey) {
		t.Errorf("ArtistGenres() error = %v, want ErrInvalidAPIKey", err)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (no retry on a bad key)", hits)
	}
}

func TestArtistGenres_OtherAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": 6, "message": "Artist not found"}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	_, err := c.ArtistGenres(context.Background(), "Test Artist")
	if err == nil {
		t.Fatal("ArtistGenres() error = nil, want API error")
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrInvalidAPIKey) {
		t.Errorf("ArtistGenres() error = %v, want a generic API error", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LASTFM_API_KEY", "")
	if _, err := LoadConfig(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("LoadConfig() error = %v, want ErrMissingAPIKey", err)
	}

	t.Setenv("LASTFM_API_KEY", "abc123")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIKey != "abc123" {
		t.Errorf("APIKey = %q, want abc123", cfg.APIKey)
	}
}
