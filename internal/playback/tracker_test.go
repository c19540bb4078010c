package playback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/track"
)

// scriptedSource returns one scripted answer per call.
type scriptedSource struct {
	answers []func() (*State, error)
	calls   int
}

func (s *scriptedSource) State(context.Context) (*State, error) {
	if s.calls >= len(s.answers) {
		return nil, nil
	}
	answer := s.answers[s.calls]
	s.calls++
	return answer()
}

func playing(artist, title string, posMs int64) func() (*State, error) {
	return func() (*State, error) {
		return &State{
			Track:      &track.Info{Artist: artist, Title: title, DurationMs: 180_000},
			PositionMs: posMs,
			DurationMs: 180_000,
			Playing:    true,
		}, nil
	}
}

func newManualTracker(source Source) (*Tracker, chan time.Time) {
	ticks := make(chan time.Time)
	tracker := NewTracker(source, time.Second)
	tracker.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	}
	return tracker, ticks
}

func collect(t *testing.T, events <-chan Event, n int) []Event {
	t.Helper()
	var got []Event
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatalf("events closed after %d events, want %d", len(got), n)
			}
			got = append(got, event)
		case <-timeout:
			t.Fatalf("timed out after %d events, want %d", len(got), n)
		}
	}
	return got
}

func TestTrackerEmitsSnapshotsAndTrackChange(t *testing.T) {
	source := &scriptedSource{answers: []func() (*State, error){
		playing("A", "one", 1_000),
		playing("A", "one", 2_000),
		playing("B", "two", 0),
	}}
	tracker, ticks := newManualTracker(source)
	tracker.Start(context.Background())
	defer tracker.Stop()

	ticks <- time.Now()
	ticks <- time.Now()

	events := collect(t, tracker.Events(), 3)

	if !events[0].TrackChanged {
		t.Error("first emission for a track must flag TrackChanged")
	}
	if events[1].TrackChanged {
		t.Error("same track must not re-flag TrackChanged")
	}
	if !events[2].TrackChanged {
		t.Error("new track key must flag TrackChanged")
	}
	if events[1].Snapshot.PositionMs != 2_000 {
		t.Errorf("snapshots out of poll order: %+v", events[1].Snapshot)
	}
}

func TestTrackerSwallowsQueryFailures(t *testing.T) {
	source := &scriptedSource{answers: []func() (*State, error){
		playing("A", "one", 1_000),
		func() (*State, error) { return nil, errors.New("network down") },
		playing("A", "one", 3_000),
	}}
	tracker, ticks := newManualTracker(source)
	tracker.Start(context.Background())
	defer tracker.Stop()

	ticks <- time.Now()
	ticks <- time.Now()

	events := collect(t, tracker.Events(), 2)

	if events[1].Snapshot.PositionMs != 3_000 {
		t.Errorf("poll after failure not emitted: %+v", events[1].Snapshot)
	}
	if source.calls != 3 {
		t.Errorf("tracker stopped polling after a failure: %d calls", source.calls)
	}
}

func TestTrackerSuppressesEmptyState(t *testing.T) {
	source := &scriptedSource{answers: []func() (*State, error){
		func() (*State, error) { return nil, nil },
		playing("A", "one", 500),
	}}
	tracker, ticks := newManualTracker(source)
	tracker.Start(context.Background())
	defer tracker.Stop()

	ticks <- time.Now()

	events := collect(t, tracker.Events(), 1)
	if events[0].Snapshot.PositionMs != 500 {
		t.Errorf("empty state should emit nothing, got %+v", events[0].Snapshot)
	}
}

func TestTrackerStopClosesEvents(t *testing.T) {
	source := &scriptedSource{}
	tracker, _ := newManualTracker(source)
	tracker.Start(context.Background())

	tracker.Stop()
	tracker.Stop() // idempotent

	select {
	case _, ok := <-tracker.Events():
		if ok {
			t.Fatal("expected closed channel, got event")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after Stop")
	}
}
