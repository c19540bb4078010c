package lrclib

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics"
)

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("artist_name") != "Artist" || q.Get("track_name") != "Song" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("album_name") != "Album" {
			t.Errorf("album hint missing: %s", r.URL.RawQuery)
		}
		if q.Get("duration") != "200" {
			t.Errorf("duration hint = %q, want 200", q.Get("duration"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"trackName": "Song",
			"artistName": "Artist",
			"albumName": "Album",
			"duration": 200.5,
			"syncedLyrics": "[00:01.00]hello",
			"plainLyrics": "hello"
		}`))
	}))
	defer server.Close()

	resp, err := New(server.URL).Lookup(context.Background(), "Artist", "Song", "Album", 200)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if resp.SyncedLyrics != "[00:01.00]hello" {
		t.Errorf("SyncedLyrics = %q", resp.SyncedLyrics)
	}
	if resp.DurationSecs != 200.5 {
		t.Errorf("DurationSecs = %v", resp.DurationSecs)
	}
}

func TestLookupOmitsEmptyHints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Has("album_name") || q.Has("duration") {
			t.Errorf("empty hints should be omitted: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"plainLyrics": "x"}`))
	}))
	defer server.Close()

	if _, err := New(server.URL).Lookup(context.Background(), "A", "B", "", 0); err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
}

func TestLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(server.URL).Lookup(context.Background(), "A", "B", "", 0)
	if !errors.Is(err, lyrics.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New(server.URL).Lookup(context.Background(), "A", "B", "", 0)
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if errors.Is(err, lyrics.ErrNotFound) {
		t.Fatal("500 must not map to ErrNotFound")
	}
}
