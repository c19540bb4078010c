package pool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/playback"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/track"
)

const testInterval = 10 * time.Millisecond

// loopingSource replays a fixed playlist, advancing position each poll
// and switching tracks when told to.
type loopingSource struct {
	mu       sync.Mutex
	track    *track.Info
	position int64
	playing  bool
}

func (s *loopingSource) State(context.Context) (*playback.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.track == nil {
		return nil, nil
	}
	s.position += 100
	return &playback.State{
		Track:      s.track,
		PositionMs: s.position,
		DurationMs: 180_000,
		Playing:    s.playing,
	}, nil
}

func (s *loopingSource) switchTo(info *track.Info) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track = info
	s.position = 0
}

// blockingPrimary answers instantly except for artists listed in slow,
// which wait until released.
type blockingPrimary struct {
	slow    map[string]chan struct{}
	answers map[string]*lyrics.PrimaryResponse
}

func (p *blockingPrimary) Lookup(ctx context.Context, artist, title, album string, durationSecs int64) (*lyrics.PrimaryResponse, error) {
	if gate, ok := p.slow[artist]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if resp, ok := p.answers[artist]; ok {
		return resp, nil
	}
	return nil, lyrics.ErrNotFound
}

type emptyFallback struct{}

func (emptyFallback) Search(context.Context, string) ([]lyrics.Match, error) {
	return nil, lyrics.ErrNotFound
}

func (emptyFallback) FetchPlainLyrics(context.Context, lyrics.Match) (string, error) {
	return "", lyrics.ErrNotFound
}

func awaitUpdate(t *testing.T, updates <-chan Update, cond func(Update) bool) Update {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				t.Fatal("updates closed before condition met")
			}
			if cond(update) {
				return update
			}
		case <-timeout:
			t.Fatal("timed out waiting for update")
		}
	}
}

func TestPoolResolvesOnTrackChange(t *testing.T) {
	source := &loopingSource{playing: true}
	source.switchTo(&track.Info{Artist: "A", Title: "one", DurationMs: 180_000})

	primary := &blockingPrimary{
		answers: map[string]*lyrics.PrimaryResponse{
			"A": {SyncedLyrics: "[00:00.00]hello\n[00:10.00]world"},
		},
	}

	p := New(
		playback.NewTracker(source, testInterval),
		lyrics.NewResolver(primary, emptyFallback{}),
		nil,
	)
	p.Start(context.Background())
	defer p.Stop()

	update := awaitUpdate(t, p.Updates(), func(u Update) bool {
		return u.Result != nil && u.Result.Synced()
	})

	if len(update.Lines) != 2 || update.Lines[0] != "hello" {
		t.Errorf("lines = %v", update.Lines)
	}

	// Position starts near zero, so the first line becomes active.
	update = awaitUpdate(t, p.Updates(), func(u Update) bool { return u.Index == 0 })
	if update.Index != 0 {
		t.Errorf("index = %d, want 0", update.Index)
	}
}

func TestPoolStaleResolutionDiscarded(t *testing.T) {
	source := &loopingSource{playing: true}
	trackA := &track.Info{Artist: "A", Title: "one", DurationMs: 180_000}
	trackB := &track.Info{Artist: "B", Title: "two", DurationMs: 180_000}
	source.switchTo(trackA)

	gate := make(chan struct{})
	primary := &blockingPrimary{
		slow: map[string]chan struct{}{"A": gate},
		answers: map[string]*lyrics.PrimaryResponse{
			"A": {SyncedLyrics: "[00:00.00]a-line"},
			"B": {SyncedLyrics: "[00:00.00]b-line"},
		},
	}

	p := New(
		playback.NewTracker(source, testInterval),
		lyrics.NewResolver(primary, emptyFallback{}),
		nil,
	)
	p.Start(context.Background())
	defer p.Stop()

	// Track A's fetch hangs; track B becomes current and resolves.
	awaitUpdate(t, p.Updates(), func(u Update) bool { return u.Track.Key() == trackA.Key() })
	source.switchTo(trackB)
	awaitUpdate(t, p.Updates(), func(u Update) bool {
		return u.Result != nil && len(u.Lines) == 1 && u.Lines[0] == "b-line"
	})

	// Now A's stale fetch completes. B's timeline must survive it.
	close(gate)
	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case update, ok := <-p.Updates():
			if !ok {
				t.Fatal("updates closed early")
			}
			if len(update.Lines) == 1 && update.Lines[0] == "a-line" {
				t.Fatal("stale resolution overwrote the current track")
			}
		case <-deadline:
			return
		}
	}
}

func TestPoolSlowFetchDoesNotBlockSnapshots(t *testing.T) {
	source := &loopingSource{playing: true}
	source.switchTo(&track.Info{Artist: "A", Title: "one", DurationMs: 180_000})

	gate := make(chan struct{})
	defer close(gate)
	primary := &blockingPrimary{
		slow:    map[string]chan struct{}{"A": gate},
		answers: map[string]*lyrics.PrimaryResponse{"A": {SyncedLyrics: "[00:00.00]x"}},
	}

	p := New(
		playback.NewTracker(source, testInterval),
		lyrics.NewResolver(primary, emptyFallback{}),
		nil,
	)
	p.Start(context.Background())
	defer p.Stop()

	// Snapshots keep flowing while the lyric fetch hangs.
	var positions []int64
	awaitUpdate(t, p.Updates(), func(u Update) bool {
		positions = append(positions, u.PositionMs)
		return len(positions) >= 3
	})

	for i := 1; i < len(positions); i++ {
		if positions[i] <= positions[i-1] {
			t.Fatalf("positions not advancing in poll order: %v", positions)
		}
	}
}

func TestPoolStopClosesUpdates(t *testing.T) {
	source := &loopingSource{playing: true}
	source.switchTo(&track.Info{Artist: "A", Title: "one"})

	p := New(
		playback.NewTracker(source, testInterval),
		lyrics.NewResolver(&blockingPrimary{}, emptyFallback{}),
		nil,
	)
	p.Start(context.Background())

	p.Stop()
	p.Stop() // idempotent

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-p.Updates():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("updates not closed after Stop")
		}
	}
}
