// Package cursor maps a polled playback position onto the currently
// active lyric line.
package cursor

import (
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lrc"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/playback"
)

// NoLine is the index reported before any line is active.
const NoLine = -1

// Cursor tracks the active line index for one track. It runs in one of
// two mutually exclusive modes: exact (a timestamped timeline is set)
// or estimated (plain lines are set and the index is proportional to
// playback progress). The stored index is owned by this type and
// mutated only through Update and the mode setters.
type Cursor struct {
	timeline   lrc.Timeline
	plainLines int
	index      int
}

func New() *Cursor {
	return &Cursor{index: NoLine}
}

// SetTimeline switches to exact mode and resets the index. Called when
// a timestamped result arrives for the current track.
func (c *Cursor) SetTimeline(timeline lrc.Timeline) {
	c.timeline = timeline
	c.plainLines = 0
	c.index = NoLine
}

// SetPlainLines switches to estimated mode over n non-blank lines and
// resets the index.
func (c *Cursor) SetPlainLines(n int) {
	c.timeline = nil
	c.plainLines = n
	c.index = NoLine
}

// Reset clears both modes; called on track change before the new
// track's first snapshot is applied.
func (c *Cursor) Reset() {
	c.timeline = nil
	c.plainLines = 0
	c.index = NoLine
}

// Index returns the current active line index, NoLine when none.
func (c *Cursor) Index() int {
	return c.index
}

// Update recomputes the active line for the given snapshot and reports
// whether it changed. The computation is fresh each tick, never
// incremental, so it stays correct across seeks and skips. While the
// track is paused the index is frozen: a paused player's reported
// position may still jitter.
func (c *Cursor) Update(snapshot playback.Snapshot) (int, bool) {
	if !snapshot.Playing {
		return c.index, false
	}

	index := c.index
	switch {
	case len(c.timeline) > 0:
		index = c.timeline.IndexAt(snapshot.PositionMs)
	case c.plainLines > 0:
		index = c.estimate(snapshot.PositionMs, snapshot.DurationMs)
	default:
		return c.index, false
	}

	if index == c.index {
		return c.index, false
	}
	c.index = index
	return c.index, true
}

// estimate maps playback progress proportionally onto the plain lines.
func (c *Cursor) estimate(positionMs, durationMs int64) int {
	var ratio float64
	if durationMs > 0 {
		ratio = float64(positionMs) / float64(durationMs)
	}

	index := int(ratio * float64(c.plainLines))
	if index < 0 {
		index = 0
	}
	if index > c.plainLines-1 {
		index = c.plainLines - 1
	}
	return index
}
