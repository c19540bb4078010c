package video

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultYouTubeSearchURL = "https://www.googleapis.com/youtube/v3/search"

// YouTubeLookup finds a music video for a track through the YouTube
// Data API. It implements Lookup.
type YouTubeLookup struct {
	apiKey    string
	searchURL string
	http      *http.Client
}

func NewYouTubeLookup(apiKey string) *YouTubeLookup {
	return &YouTubeLookup{
		apiKey:    apiKey,
		searchURL: defaultYouTubeSearchURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// Lookup searches for "<artist> <title> music video", restricted to
// embeddable videos, and returns the top hit's video id. Returns
// ErrNotFound when the search comes back empty.
func (y *YouTubeLookup) Lookup(ctx context.Context, artist, title string) (string, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("q", artist+" "+title+" music video")
	query.Set("type", "video")
	query.Set("videoEmbeddable", "true")
	query.Set("maxResults", "1")
	query.Set("key", y.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.searchURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build youtube request: %w", err)
	}

	resp, err := y.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("youtube search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube returned status %d", resp.StatusCode)
	}

	var payload youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode youtube response: %w", err)
	}

	if len(payload.Items) == 0 || payload.Items[0].ID.VideoID == "" {
		return "", fmt.Errorf("no video for %q - %q: %w", artist, title, ErrNotFound)
	}
	return payload.Items[0].ID.VideoID, nil
}
