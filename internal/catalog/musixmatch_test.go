package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const trackSearchResponse = `{
	"message": {
		"header": {"status_code": 200, "execute_time": 0.01, "available": 3},
		"body": {
			"track_list": [
				{"track": {"track_id": 101, "track_name": "Captain", "track_rating": 90, "album_id": 1, "album_name": "Hajime", "artist_id": 7, "artist_name": "Miyagi", "has_lyrics": 1}},
				{"track": {"track_id": 102, "track_name": " Shadow ", "track_rating": 80, "album_id": 2, "album_name": "", "artist_id": 7, "artist_name": "Miyagi", "has_lyrics": 1}},
				{"track": {"track_id": 0, "track_name": "Broken", "track_rating": 10}},
				{"track": {"track_id": 103, "track_name": "Orphan", "track_rating": 5, "artist_name": "  ", "has_lyrics": 1}}
			]
		}
	}
}`

const lyricsResponse = `{
	"message": {
		"header": {"status_code": 200},
		"body": {"lyrics": {"lyrics_id": 5, "lyrics_body": "line one\nline two", "explicit": 0}}
	}
}`

func TestMusixmatchProvider_SearchTracksByArtist(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/track.search" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q_artist":       q.Get("q_artist"),
			"s_track_rating": q.Get("s_track_rating"),
			"page_size":      q.Get("page_size"),
			"f_has_lyrics":   q.Get("f_has_lyrics"),
			"apikey":         q.Get("apikey"),
		}
		_, _ = w.Write([]byte(trackSearchResponse))
	}))
	defer server.Close()

	p := NewMusixmatchProvider(server.URL+"/", "secret", time.Second)
	tracks, err := p.SearchTracksByArtist(context.Background(), "Miyagi")
	if err != nil {
		t.Fatalf("SearchTracksByArtist failed: %v", err)
	}

	want := map[string]string{
		"q_artist":       "Miyagi",
		"s_track_rating": "desc",
		"page_size":      "30",
		"f_has_lyrics":   "1",
		"apikey":         "secret",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("Expected query %s=%s, got %s", k, v, gotQuery[k])
		}
	}

	if len(tracks) != 2 {
		t.Fatalf("Expected 2 tracks (entries without id or artist dropped), got %d", len(tracks))
	}
	if tracks[0].ID != 101 || tracks[0].Title != "Captain" || tracks[0].Album != "Hajime" || tracks[0].Rating != 90 {
		t.Errorf("Unexpected first track %+v", tracks[0])
	}
	if tracks[1].Title != "Shadow" {
		t.Errorf("Expected trimmed title, got %q", tracks[1].Title)
	}
}

func TestMusixmatchProvider_EmptyQuery(t *testing.T) {
	p := NewMusixmatchProvider("http://127.0.0.1:1", "key", time.Second)
	tracks, err := p.SearchTracksByArtist(context.Background(), "   ")
	if err != nil || tracks != nil {
		t.Errorf("Expected no request for empty query, got %v, %v", tracks, err)
	}
}

func TestMusixmatchProvider_GetLyrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/track.lyrics.get" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("track_id") != "101" {
			t.Errorf("Unexpected track_id %s", r.URL.Query().Get("track_id"))
		}
		_, _ = w.Write([]byte(lyricsResponse))
	}))
	defer server.Close()

	p := NewMusixmatchProvider(server.URL, "secret", time.Second)
	lyrics, err := p.GetLyrics(context.Background(), 101)
	if err != nil {
		t.Fatalf("GetLyrics failed: %v", err)
	}
	if lyrics != "line one\nline two" {
		t.Errorf("Unexpected lyrics %q", lyrics)
	}
}

func TestMusixmatchProvider_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
	}{
		{name: "http 500", status: http.StatusInternalServerError, body: "oops"},
		{name: "http 404", status: http.StatusNotFound, body: "", notFound: true},
		{name: "header 401", status: http.StatusOK, body: `{"message":{"header":{"status_code":401},"body":""}}`},
		{name: "header 404", status: http.StatusOK, body: `{"message":{"header":{"status_code":404},"body":[]}}`, notFound: true},
		{name: "empty body", status: http.StatusOK, body: `{"message":{"header":{"status_code":200},"body":[]}}`, notFound: true},
		{name: "malformed json", status: http.StatusOK, body: `{"message":`},
		{name: "empty lyrics", status: http.StatusOK, body: `{"message":{"header":{"status_code":200},"body":{"lyrics":{"lyrics_body":""}}}}`, notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewMusixmatchProvider(server.URL, "key", time.Second)
			_, err := p.GetLyrics(context.Background(), 1)
			if err == nil {
				t.Fatal("Expected error")
			}
			if errors.Is(err, ErrNotFound) != tt.notFound {
				t.Errorf("errors.Is(err, ErrNotFound) = %v, want %v (err: %v)", !tt.notFound, tt.notFound, err)
			}
		})
	}
}

func TestMusixmatchProvider_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(lyricsResponse))
	}))
	defer server.Close()

	p := NewMusixmatchProvider(server.URL, "key", 20*time.Millisecond)
	if _, err := p.GetLyrics(context.Background(), 1); err == nil {
		t.Error("Expected timeout error")
	}
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()

	tracks, err := p.SearchTracksByArtist(context.Background(), "mock")
	if err != nil {
		t.Fatalf("SearchTracksByArtist failed: %v", err)
	}
	if len(tracks) != 3 {
		t.Errorf("Expected 3 mock tracks, got %d", len(tracks))
	}

	tracks, _ = p.SearchTracksByArtist(context.Background(), "nobody")
	if len(tracks) != 0 {
		t.Errorf("Expected no tracks for unknown artist, got %d", len(tracks))
	}

	if _, err := p.GetLyrics(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
