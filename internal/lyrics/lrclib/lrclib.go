// Package lrclib implements the primary lyric source against the
// LRCLIB API.
package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics"
)

const DefaultBaseURL = "https://lrclib.net/api"

const userAgent = "spotifyxgenius/1.0"

type response struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Client queries LRCLIB's GET endpoint. It implements lyrics.Primary.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   2 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     60 * time.Second,
				TLSHandshakeTimeout: 2 * time.Second,
			},
			Timeout: 10 * time.Second,
		},
	}
}

// Lookup fetches lyrics for the given track. Album and durationSecs are
// optional disambiguation hints. Returns lyrics.ErrNotFound on a miss.
func (c *Client) Lookup(ctx context.Context, artist, title, album string, durationSecs int64) (*lyrics.PrimaryResponse, error) {
	endpoint, err := url.Parse(c.baseURL + "/get")
	if err != nil {
		return nil, fmt.Errorf("invalid lrclib url %q: %w", c.baseURL, err)
	}

	query := endpoint.Query()
	query.Set("artist_name", artist)
	query.Set("track_name", title)
	if album != "" {
		query.Set("album_name", album)
	}
	if durationSecs > 0 {
		query.Set("duration", strconv.FormatInt(durationSecs, 10))
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lrclib request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lrclib request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("lrclib has no match for %q - %q: %w", artist, title, lyrics.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("lrclib returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode lrclib response: %w", err)
	}

	return &lyrics.PrimaryResponse{
		Title:        payload.TrackName,
		Artist:       payload.ArtistName,
		Album:        payload.AlbumName,
		DurationSecs: payload.Duration,
		SyncedLyrics: payload.SyncedLyrics,
		PlainLyrics:  payload.PlainLyrics,
	}, nil
}
