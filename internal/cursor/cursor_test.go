package cursor

import (
	"testing"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lrc"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/playback"
)

func snap(positionMs, durationMs int64, playing bool) playback.Snapshot {
	return playback.Snapshot{PositionMs: positionMs, DurationMs: durationMs, Playing: playing}
}

var exactTimeline = lrc.Timeline{{TimeMs: 0, Text: "a"}, {TimeMs: 1_000, Text: "b"}, {TimeMs: 3_000, Text: "c"}}

func TestExactMode(t *testing.T) {
	tests := []struct {
		positionMs int64
		want       int
	}{
		{500, 0},
		{1_500, 1},
		{2_999, 1},
		{3_000, 2},
		{10_000, 2},
	}

	for _, tt := range tests {
		c := New()
		c.SetTimeline(exactTimeline)
		got, _ := c.Update(snap(tt.positionMs, 200_000, true))
		if got != tt.want {
			t.Errorf("Update(pos=%d) = %d, want %d", tt.positionMs, got, tt.want)
		}
	}
}

func TestExactModeBeforeFirstLine(t *testing.T) {
	c := New()
	c.SetTimeline(lrc.Timeline{{TimeMs: 5_000, Text: "late"}})

	got, changed := c.Update(snap(1_000, 200_000, true))
	if got != NoLine {
		t.Errorf("index = %d, want NoLine before first line", got)
	}
	if changed {
		t.Error("index did not move away from NoLine, change reported")
	}
}

func TestEstimatedMode(t *testing.T) {
	c := New()
	c.SetPlainLines(10)

	got, _ := c.Update(snap(55_000, 100_000, true))
	if got != 5 {
		t.Errorf("estimated index = %d, want 5", got)
	}

	got, _ = c.Update(snap(100_000, 100_000, true))
	if got != 9 {
		t.Errorf("estimated index at end = %d, want clamp to 9", got)
	}
}

func TestEstimatedModeZeroDuration(t *testing.T) {
	c := New()
	c.SetPlainLines(10)

	got, _ := c.Update(snap(5_000, 0, true))
	if got != 0 {
		t.Errorf("zero duration index = %d, want 0", got)
	}
}

func TestPausedFreezesIndex(t *testing.T) {
	c := New()
	c.SetTimeline(exactTimeline)

	if got, _ := c.Update(snap(1_500, 200_000, true)); got != 1 {
		t.Fatalf("setup index = %d, want 1", got)
	}

	// Paused snapshots with jittering positions must not advance.
	got, changed := c.Update(snap(3_500, 200_000, false))
	if got != 1 || changed {
		t.Errorf("paused update = (%d, %v), want (1, false)", got, changed)
	}
	got, changed = c.Update(snap(4_000, 200_000, false))
	if got != 1 || changed {
		t.Errorf("second paused update = (%d, %v), want (1, false)", got, changed)
	}
}

func TestUnchangedIndexIsNoOp(t *testing.T) {
	c := New()
	c.SetTimeline(exactTimeline)

	if _, changed := c.Update(snap(1_200, 200_000, true)); !changed {
		t.Fatal("first update should report a change")
	}
	if _, changed := c.Update(snap(1_800, 200_000, true)); changed {
		t.Error("same line must not report a change (scroll thrash)")
	}
}

func TestResetOnTrackChange(t *testing.T) {
	c := New()
	c.SetTimeline(exactTimeline)
	c.Update(snap(3_500, 200_000, true))

	c.Reset()
	if got := c.Index(); got != NoLine {
		t.Errorf("index after Reset = %d, want NoLine", got)
	}

	// Without a mode set, updates are no-ops.
	if got, changed := c.Update(snap(1_000, 200_000, true)); got != NoLine || changed {
		t.Errorf("modeless update = (%d, %v), want (NoLine, false)", got, changed)
	}
}

func TestModeSwitchResets(t *testing.T) {
	c := New()
	c.SetTimeline(exactTimeline)
	c.Update(snap(3_500, 200_000, true))

	c.SetPlainLines(4)
	if got := c.Index(); got != NoLine {
		t.Errorf("index after mode switch = %d, want NoLine", got)
	}
}
