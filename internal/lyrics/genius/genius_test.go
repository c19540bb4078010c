package genius

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "Artist Song" {
			t.Errorf("q = %q", got)
		}
		w.Write([]byte(`{"response":{"hits":[
			{"result":{"id":42,"title":"Song","url":"https://genius.com/song-lyrics","primary_artist":{"name":"Artist"}}}
		]}}`))
	}))
	defer server.Close()

	client := New("test-token")
	client.searchURL = server.URL

	matches, err := client.Search(context.Background(), "Artist Song")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].ID != 42 || matches[0].Artist != "Artist" {
		t.Errorf("match = %+v", matches[0])
	}
}

func TestSearchNoHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"hits":[]}}`))
	}))
	defer server.Close()

	client := New("test-token")
	client.searchURL = server.URL

	_, err := client.Search(context.Background(), "nothing")
	if !errors.Is(err, lyrics.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestExtractLyricsHTML(t *testing.T) {
	page := `<html><body>
		<div data-lyrics-container="true" class="x">First line<br/>Second &amp; third<br>
		<a href="/x"><span>Fourth line</span></a></div>
		<div>unrelated</div>
		<div data-lyrics-container="true">Fifth line</div>
	</body></html>`

	got := ExtractLyricsHTML(page)

	for _, want := range []string{"First line", "Second & third", "Fourth line", "Fifth line"} {
		if !containsLine(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if containsLine(got, "unrelated") {
		t.Errorf("picked up text outside lyric containers: %q", got)
	}
}

func TestExtractLyricsHTMLEmpty(t *testing.T) {
	if got := ExtractLyricsHTML("<html><body>no lyrics here</body></html>"); got != "" {
		t.Errorf("ExtractLyricsHTML() = %q, want empty", got)
	}
}

func containsLine(text, line string) bool {
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}
