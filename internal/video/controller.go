package video

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/playback"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/track"
)

// Lookup resolves a track to a playable media identifier.
type Lookup interface {
	Lookup(ctx context.Context, artist, title string) (string, error)
}

// Player is a Handle that can also switch to a new piece of media.
type Player interface {
	Handle
	Load(mediaID string) error
}

// Controller owns the handle's two-state lifecycle: not-ready from the
// moment a track changes until a lookup for that same track resolves
// and the media is loaded. A stale lookup that completes after another
// track became current is discarded; requestedKey marks the most
// recently requested track and wins over any in-flight completion.
type Controller struct {
	lookup       Lookup
	player       Player
	synchronizer *Synchronizer

	// spawn is swapped out in tests to drive lookups synchronously.
	spawn func(func())

	mu           sync.Mutex
	requestedKey string
	ready        bool
}

func NewController(lookup Lookup, player Player, synchronizer *Synchronizer) *Controller {
	return &Controller{
		lookup:       lookup,
		player:       player,
		synchronizer: synchronizer,
		spawn:        func(f func()) { go f() },
	}
}

// OnTrackChange invalidates the current handle and starts resolving
// media for the new track.
func (c *Controller) OnTrackChange(ctx context.Context, info *track.Info) {
	key := info.Key()

	c.mu.Lock()
	c.requestedKey = key
	c.ready = false
	c.mu.Unlock()

	if c.lookup == nil || c.player == nil {
		return
	}
	c.spawn(func() { c.resolve(ctx, key, info.Artist, info.Title) })
}

func (c *Controller) resolve(ctx context.Context, key, artist, title string) {
	mediaID, err := c.lookup.Lookup(ctx, artist, title)
	if err != nil {
		log.WithField("track", key).Debugf("no video for track: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.requestedKey != key {
		// Another track became current while this lookup was in
		// flight; its result must not clobber the newer one.
		return
	}

	if err := c.player.Load(mediaID); err != nil {
		log.WithField("track", key).Warnf("failed to load video: %v", err)
		return
	}
	c.ready = true
}

// OnSnapshot reconciles the secondary player against the snapshot,
// skipping the tick while the handle is not ready.
func (c *Controller) OnSnapshot(snapshot playback.Snapshot) {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()

	if !ready || c.player == nil {
		return
	}
	c.synchronizer.Reconcile(c.player, snapshot)
}

// Ready reports whether a handle is attached and carrying the current
// track's media.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}
