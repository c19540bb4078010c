// Package spotify adapts the Spotify Web API to the playback.Source
// interface.
package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/playback"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/track"
)

// Source polls the authenticated user's player state. The underlying
// client must already carry a valid credential.
type Source struct {
	api *spotify.Client
}

func New(api *spotify.Client) *Source {
	return &Source{api: api}
}

// State queries the current playback state. A response without an item
// (nothing playing, private session) yields (nil, nil).
func (s *Source) State(ctx context.Context) (*playback.State, error) {
	state, err := s.api.PlayerState(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying player state: %w", err)
	}
	if state == nil || state.Item == nil {
		return nil, nil
	}

	item := state.Item

	artists := make([]string, len(item.Artists))
	for i, artist := range item.Artists {
		artists[i] = artist.Name
	}

	info := &track.Info{
		Artist:     strings.Join(artists, ", "),
		Title:      item.Name,
		Album:      item.Album.Name,
		DurationMs: int64(item.Duration),
		ID:         string(item.ID),
	}
	if len(item.Album.Images) > 0 {
		info.ArtworkURL = item.Album.Images[0].URL
	}

	return &playback.State{
		Track:      info,
		PositionMs: int64(state.Progress),
		DurationMs: int64(item.Duration),
		Playing:    state.Playing,
	}, nil
}
