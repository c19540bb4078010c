// Package playback observes an externally controlled player whose
// clock is only visible through periodic polling.
package playback

import (
	"context"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/track"
)

// State is one observation of the external player. A nil State with a
// nil error means nothing is playing right now.
type State struct {
	Track      *track.Info
	PositionMs int64
	DurationMs int64
	Playing    bool
}

// Source is the external "current playback state" query. Implementations
// exist for the Spotify Web API and for local MPRIS players.
type Source interface {
	State(ctx context.Context) (*State, error)
}

// Snapshot is one poll cycle's normalized observation. It is ephemeral:
// a new one replaces it every tick and none are persisted.
type Snapshot struct {
	PositionMs int64
	DurationMs int64
	Playing    bool
	Track      *track.Info
}

// TrackKey returns the fetch-suppression key of the playing track.
func (s Snapshot) TrackKey() string {
	return s.Track.Key()
}

// Event is what the tracker emits once per successful poll tick.
// TrackChanged is set on the first emission for a new track.
type Event struct {
	Snapshot     Snapshot
	TrackChanged bool
}
