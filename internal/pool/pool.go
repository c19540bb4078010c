// Package pool runs the coordination loop of one viewing session:
// playback events in, lyric resolution and video sync out, display
// updates published on a channel.
package pool

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/cursor"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/playback"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/track"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/video"
)

// Update is one state publication to the rendering collaborator. The
// consumer derives line classification from Index: lines before it are
// past, the line at it active, the rest future.
type Update struct {
	Track      *track.Info
	Result     *lyrics.Result
	Lines      []string
	Index      int
	Playing    bool
	PositionMs int64
	DurationMs int64
	// Loading is set between a track change and its resolution.
	Loading bool
}

// Pool owns the session state: the current track, the resolved lyrics,
// and the cursor. All of it is mutated only on the run loop, so no
// locks guard it. Lyric resolution runs off-loop and rejoins through a
// channel; a completion for anything but the current track is dropped.
type Pool struct {
	tracker    *playback.Tracker
	resolver   *lyrics.Resolver
	videoCtrl  *video.Controller
	updates    chan Update
	resolution chan resolution

	current      *track.Info
	result       *lyrics.Result
	lines        []string
	cursor       *cursor.Cursor
	loading      bool
	lastSnapshot playback.Snapshot

	cancel   context.CancelFunc
	stopOnce sync.Once
}

type resolution struct {
	key    string
	result lyrics.Result
}

// New wires a session. videoCtrl may be nil when no secondary player is
// configured.
func New(tracker *playback.Tracker, resolver *lyrics.Resolver, videoCtrl *video.Controller) *Pool {
	return &Pool{
		tracker:    tracker,
		resolver:   resolver,
		videoCtrl:  videoCtrl,
		updates:    make(chan Update, 16),
		resolution: make(chan resolution, 4),
		cursor:     cursor.New(),
	}
}

// Updates yields one Update per applied snapshot or resolution. Closed
// when the session stops.
func (p *Pool) Updates() <-chan Update {
	return p.updates
}

// Start begins the session: the tracker polls and the run loop applies
// its events in poll order.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.tracker.Start(ctx)
	go p.run(ctx)
}

// Stop ends the session. In-flight resolutions are discarded rather
// than applied to a dead session.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.tracker.Stop()
		if p.cancel != nil {
			p.cancel()
		}
	})
}

func (p *Pool) run(ctx context.Context) {
	defer close(p.updates)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-p.tracker.Events():
			if !ok {
				return
			}
			p.handleEvent(ctx, event)

		case res := <-p.resolution:
			p.handleResolution(res)
		}

		p.publish(ctx)
	}
}

// handleEvent applies one poll tick. A slow lyric fetch never blocks
// this path: resolution runs on its own goroutine and rejoins through
// the resolution channel.
func (p *Pool) handleEvent(ctx context.Context, event playback.Event) {
	if event.TrackChanged {
		p.startTrack(ctx, event.Snapshot.Track)
	}

	p.cursor.Update(event.Snapshot)
	if p.videoCtrl != nil {
		p.videoCtrl.OnSnapshot(event.Snapshot)
	}

	p.lastSnapshot = event.Snapshot
}

func (p *Pool) startTrack(ctx context.Context, info *track.Info) {
	log.WithField("track", info.Key()).Info("track changed")

	p.current = info
	p.result = nil
	p.lines = nil
	p.loading = true
	p.cursor.Reset()

	if p.videoCtrl != nil {
		p.videoCtrl.OnTrackChange(ctx, info)
	}

	key := info.Key()
	go func() {
		result := p.resolver.Resolve(ctx, info)
		select {
		case p.resolution <- resolution{key: key, result: result}:
		case <-ctx.Done():
			// Session ended; drop the completion instead of
			// mutating dead state.
		}
	}()
}

func (p *Pool) handleResolution(res resolution) {
	if p.current.Key() != res.key {
		// Stale: another track became current while this fetch was
		// in flight.
		log.WithField("track", res.key).Debug("discarding stale lyric resolution")
		return
	}

	p.loading = false
	result := res.result
	p.result = &result

	switch result.Kind {
	case lyrics.KindTimestamped:
		p.lines = make([]string, len(result.Timeline))
		for i, line := range result.Timeline {
			p.lines[i] = line.Text
		}
		p.cursor.SetTimeline(result.Timeline)

	case lyrics.KindPlainOnly:
		p.lines = lyrics.SplitPlainLines(result.PlainText)
		p.cursor.SetPlainLines(len(p.lines))

	case lyrics.KindNotFound, lyrics.KindFetchError:
		p.lines = nil
		p.cursor.Reset()
	}
}

func (p *Pool) publish(ctx context.Context) {
	update := Update{
		Track:      p.current,
		Result:     p.result,
		Lines:      p.lines,
		Index:      p.cursor.Index(),
		Playing:    p.lastSnapshot.Playing,
		PositionMs: p.lastSnapshot.PositionMs,
		DurationMs: p.lastSnapshot.DurationMs,
		Loading:    p.loading,
	}

	select {
	case p.updates <- update:
	case <-ctx.Done():
	}
}
