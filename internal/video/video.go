// Package video keeps an independently clocked media player aligned to
// the polled playback position.
package video

import (
	"errors"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/playback"
)

// ErrNotFound is returned by Lookup implementations when no media
// matches the track.
var ErrNotFound = errors.New("video: no match")

// DefaultDriftTolerance is how far the secondary player's clock may
// free-run from the polled position before a corrective seek. Constant
// seeking would stutter playback; two seconds is the threshold the
// system was tuned with.
const DefaultDriftTolerance = 2 * time.Second

// Handle is the secondary player capability. All methods may fail while
// the underlying player is detached or mid-load; callers skip the tick
// and retry on the next snapshot.
type Handle interface {
	PositionSeconds() (float64, error)
	Playing() (bool, error)
	Play() error
	Pause() error
	SeekTo(seconds float64) error
}

// Synchronizer reconciles a handle against playback snapshots.
type Synchronizer struct {
	toleranceSecs float64
}

func NewSynchronizer(tolerance time.Duration) *Synchronizer {
	if tolerance <= 0 {
		tolerance = DefaultDriftTolerance
	}
	return &Synchronizer{toleranceSecs: tolerance.Seconds()}
}

// Reconcile aligns the handle's play/pause state and position to the
// snapshot. Play and pause are only issued when the states disagree;
// repeated commands cause visible restart flicker on some players. The
// handle's own clock is left running unless drift exceeds the
// tolerance. Every handle failure is swallowed: the next snapshot is
// the retry.
func (s *Synchronizer) Reconcile(handle Handle, snapshot playback.Snapshot) {
	if handle == nil {
		return
	}

	playing, err := handle.Playing()
	if err != nil {
		log.Debugf("video state unavailable, skipping tick: %v", err)
		return
	}

	if snapshot.Playing && !playing {
		if err := handle.Play(); err != nil {
			log.Debugf("video play failed, skipping tick: %v", err)
			return
		}
	} else if !snapshot.Playing && playing {
		if err := handle.Pause(); err != nil {
			log.Debugf("video pause failed, skipping tick: %v", err)
			return
		}
	}

	position, err := handle.PositionSeconds()
	if err != nil {
		log.Debugf("video position unavailable, skipping tick: %v", err)
		return
	}

	target := float64(snapshot.PositionMs) / 1000
	if math.Abs(position-target) > s.toleranceSecs {
		if err := handle.SeekTo(target); err != nil {
			log.Debugf("video seek failed, skipping tick: %v", err)
		}
	}
}
