// Package genius implements the fallback lyric source. Genius has no
// lyrics endpoint in its API, so matching goes through the search API
// and the text itself is extracted from the song page.
package genius

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics"
)

const searchURL = "https://api.genius.com/search"

type searchResponse struct {
	Response struct {
		Hits []struct {
			Result struct {
				ID            int64  `json:"id"`
				Title         string `json:"title"`
				URL           string `json:"url"`
				PrimaryArtist struct {
					Name string `json:"name"`
				} `json:"primary_artist"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

var (
	lyricsContainer = regexp.MustCompile(`(?s)<div[^>]+data-lyrics-container="true"[^>]*>(.*?)</div>`)
	lineBreak       = regexp.MustCompile(`<br\s*/?>`)
	anyTag          = regexp.MustCompile(`<[^>]*>`)
)

// Client talks to the Genius search API and scrapes song pages. It
// implements lyrics.Fallback.
type Client struct {
	token     string
	searchURL string
	http      *http.Client
}

func New(accessToken string) *Client {
	return &Client{
		token:     accessToken,
		searchURL: searchURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Search queries Genius for the concatenated "artist title" string and
// returns candidate matches in relevance order. Returns
// lyrics.ErrNotFound when there are no hits.
func (c *Client) Search(ctx context.Context, query string) ([]lyrics.Match, error) {
	endpoint := c.searchURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build genius request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("genius search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("genius returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode genius response: %w", err)
	}

	if len(payload.Response.Hits) == 0 {
		return nil, fmt.Errorf("genius has no match for %q: %w", query, lyrics.ErrNotFound)
	}

	matches := make([]lyrics.Match, 0, len(payload.Response.Hits))
	for _, hit := range payload.Response.Hits {
		matches = append(matches, lyrics.Match{
			ID:     hit.Result.ID,
			Title:  hit.Result.Title,
			Artist: hit.Result.PrimaryArtist.Name,
			URL:    hit.Result.URL,
		})
	}
	return matches, nil
}

// FetchPlainLyrics downloads the matched song page and extracts the
// lyric text from its lyrics containers. The caller is expected to run
// the result through lyrics.CleanPlainText.
func (c *Client) FetchPlainLyrics(ctx context.Context, match lyrics.Match) (string, error) {
	if match.URL == "" {
		return "", fmt.Errorf("genius match %d has no page url", match.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, match.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build page request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; spotifyxgenius/1.0)")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("genius page fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genius page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read genius page: %w", err)
	}

	text := ExtractLyricsHTML(string(body))
	if text == "" {
		return "", fmt.Errorf("no lyrics containers in page for %q", match.Title)
	}
	return text, nil
}

// ExtractLyricsHTML pulls the lyric text out of a Genius song page:
// every data-lyrics-container div, <br> turned into newlines, all other
// markup dropped, entities unescaped.
func ExtractLyricsHTML(page string) string {
	containers := lyricsContainer.FindAllStringSubmatch(page, -1)
	if len(containers) == 0 {
		return ""
	}

	var parts []string
	for _, container := range containers {
		segment := lineBreak.ReplaceAllString(container[1], "\n")
		segment = anyTag.ReplaceAllString(segment, "")
		parts = append(parts, html.UnescapeString(segment))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
