// Package mpris adapts a local MPRIS media player to the
// playback.Source interface, so the engine also runs without Spotify
// credentials.
package mpris

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/playback"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/track"
)

const (
	DefaultService = "org.mpris.MediaPlayer2.spotify"

	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
)

// Source reads playback state from a player's MPRIS properties.
type Source struct {
	bus     *dbus.Conn
	service string
}

func New(bus *dbus.Conn, service string) (*Source, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	if service == "" {
		service = DefaultService
	}
	return &Source{bus: bus, service: service}, nil
}

func (s *Source) State(ctx context.Context) (*playback.State, error) {
	obj := s.bus.Object(s.service, mprisPath)

	metadataProp, err := obj.GetProperty(mprisPlayerIface + ".Metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata property: %w", err)
	}
	metadata, ok := metadataProp.Value().(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("unexpected metadata type %T", metadataProp.Value())
	}

	info := &track.Info{
		Title:      extractString(metadata, "xesam:title"),
		Artist:     extractArtist(metadata, "xesam:artist"),
		Album:      extractString(metadata, "xesam:album"),
		ArtworkURL: extractString(metadata, "mpris:artUrl"),
		ID:         extractString(metadata, "mpris:trackid"),
		DurationMs: extractMicros(metadata, "mpris:length") / 1_000,
	}
	if !info.IsValid() {
		// Player is idle or between tracks.
		return nil, nil
	}

	positionProp, err := obj.GetProperty(mprisPlayerIface + ".Position")
	if err != nil {
		return nil, fmt.Errorf("failed to get position property: %w", err)
	}
	positionMicros, _ := positionProp.Value().(int64)
	if positionMicros < 0 {
		positionMicros = 0
	}

	statusProp, err := obj.GetProperty(mprisPlayerIface + ".PlaybackStatus")
	if err != nil {
		return nil, fmt.Errorf("failed to get playback status: %w", err)
	}
	status, _ := statusProp.Value().(string)

	return &playback.State{
		Track:      info,
		PositionMs: positionMicros / 1_000,
		DurationMs: info.DurationMs,
		Playing:    status == "Playing",
	}, nil
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}
	text, _ := variant.Value().(string)
	return text
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}
	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}

func extractMicros(metadata map[string]dbus.Variant, key string) int64 {
	variant, exists := metadata[key]
	if !exists {
		return 0
	}
	switch typed := variant.Value().(type) {
	case int64:
		if typed < 0 {
			return 0
		}
		return typed
	case uint64:
		return int64(typed)
	default:
		return 0
	}
}
