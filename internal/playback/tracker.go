package playback

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultPollInterval matches the cadence the rest of the pipeline is
// tuned for; one poll per second keeps line changes within perceptual
// tolerance without hammering the player API.
const DefaultPollInterval = time.Second

// Tracker polls a Source on a fixed cadence and emits Events in poll
// order. Query failures are logged and skipped; the next scheduled tick
// is the only retry mechanism. Stopping halts the ticker and closes the
// event channel.
type Tracker struct {
	source   Source
	interval time.Duration
	events   chan Event
	lastKey  string

	stop     chan struct{}
	stopOnce sync.Once

	// newTicker is swapped out in tests to drive ticks manually.
	newTicker func(time.Duration) (<-chan time.Time, func())
}

func NewTracker(source Source, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Tracker{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		stop:     make(chan struct{}),
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			ticker := time.NewTicker(d)
			return ticker.C, ticker.Stop
		},
	}
}

// Events yields one Event per successful poll with a non-empty player
// state. The channel is closed when the tracker stops.
func (t *Tracker) Events() <-chan Event {
	return t.events
}

// Start begins polling until Stop is called or ctx is cancelled.
func (t *Tracker) Start(ctx context.Context) {
	go t.loop(ctx)
}

// Stop halts the recurring tick. Safe to call more than once.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

func (t *Tracker) loop(ctx context.Context) {
	defer close(t.events)

	ticks, stopTicker := t.newTicker(t.interval)
	defer stopTicker()

	// First poll happens immediately so a fresh session does not sit
	// blank for a full interval.
	t.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case <-ticks:
			t.pollOnce(ctx)
		}
	}
}

// pollOnce performs a single query and emits at most one event. An
// error or an empty "nothing playing" response suppresses emission for
// this tick only.
func (t *Tracker) pollOnce(ctx context.Context) {
	state, err := t.source.State(ctx)
	if err != nil {
		log.Debugf("playback poll failed, retrying next tick: %v", err)
		return
	}
	if state == nil || !state.Track.IsValid() {
		return
	}

	event := Event{Snapshot: Snapshot{
		PositionMs: state.PositionMs,
		DurationMs: state.DurationMs,
		Playing:    state.Playing,
		Track:      state.Track,
	}}

	if key := state.Track.Key(); key != t.lastKey {
		t.lastKey = key
		event.TrackChanged = true
	}

	select {
	case t.events <- event:
	case <-t.stop:
	case <-ctx.Done():
	}
}
