package lyrics

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lrc"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/track"
)

// PrimaryResponse is what the timestamp-capable source returns. Either
// lyric field may be empty; metadata fields are empty when the source
// did not report them.
type PrimaryResponse struct {
	Title        string
	Artist       string
	Album        string
	DurationSecs float64
	SyncedLyrics string
	PlainLyrics  string
}

// Primary is the timestamped source tried first. Album and durationSecs
// are optional disambiguation hints (empty string / 0 to omit).
type Primary interface {
	Lookup(ctx context.Context, artist, title, album string, durationSecs int64) (*PrimaryResponse, error)
}

// Match is one candidate from the fallback source's search.
type Match struct {
	ID     int64
	Title  string
	Artist string
	URL    string
}

// Fallback is the plain-text source tried when the primary fails.
type Fallback interface {
	Search(ctx context.Context, query string) ([]Match, error)
	FetchPlainLyrics(ctx context.Context, match Match) (string, error)
}

// Resolver runs the primary-then-fallback chain. It performs no caching:
// repeated calls for the same track always re-fetch. De-duplication is
// the caller's job, keyed on track.Info.Key.
type Resolver struct {
	primary  Primary
	fallback Fallback
}

func NewResolver(primary Primary, fallback Fallback) *Resolver {
	return &Resolver{primary: primary, fallback: fallback}
}

// Resolve fetches lyrics for the given track. It never fails: every
// error, panic included, is folded into a KindNotFound or KindFetchError
// result at this boundary.
func (r *Resolver) Resolve(ctx context.Context, info *track.Info) (result Result) {
	defer func() {
		if v := recover(); v != nil {
			log.WithField("track", info.Key()).Errorf("panic during lyric resolution: %v", v)
			result = Result{
				Kind:  KindFetchError,
				Track: *info,
				Err:   fmt.Errorf("lyric resolution panicked: %v", v),
			}
		}
	}()

	if primary := r.resolvePrimary(ctx, info); primary != nil {
		return *primary
	}
	return r.resolveFallback(ctx, info)
}

// resolvePrimary returns nil when the fallback chain should run instead.
func (r *Resolver) resolvePrimary(ctx context.Context, info *track.Info) *Result {
	if r.primary == nil {
		return nil
	}

	resp, err := r.primary.Lookup(ctx, info.Artist, info.Title, info.Album, info.DurationSecs())
	if err != nil {
		log.WithFields(log.Fields{"track": info.Key(), "source": SourcePrimary}).
			Debugf("primary lookup failed, falling back: %v", err)
		return nil
	}

	meta := mergeMetadata(info, resp)

	if resp.SyncedLyrics != "" {
		return &Result{
			Kind:      KindTimestamped,
			Source:    SourcePrimary,
			Track:     meta,
			Timeline:  lrc.Parse(resp.SyncedLyrics),
			PlainText: resp.PlainLyrics,
		}
	}

	if resp.PlainLyrics != "" {
		return &Result{
			Kind:      KindPlainOnly,
			Source:    SourcePrimary,
			Track:     meta,
			PlainText: resp.PlainLyrics,
		}
	}

	// Neither field present counts as a primary miss.
	return nil
}

func (r *Resolver) resolveFallback(ctx context.Context, info *track.Info) Result {
	if r.fallback == nil {
		return Result{Kind: KindNotFound, Track: *info}
	}

	query := info.Artist + " " + info.Title
	matches, err := r.fallback.Search(ctx, query)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Result{Kind: KindNotFound, Track: *info}
		}
		return Result{
			Kind:  KindFetchError,
			Track: *info,
			Err:   fmt.Errorf("fallback search: %w", err),
		}
	}
	if len(matches) == 0 {
		return Result{Kind: KindNotFound, Track: *info}
	}

	match := matches[0]
	text, err := r.fallback.FetchPlainLyrics(ctx, match)
	if err != nil {
		return Result{
			Kind:  KindFetchError,
			Track: *info,
			Err:   fmt.Errorf("fallback lyrics fetch: %w", err),
		}
	}

	meta := *info
	if match.Title != "" {
		meta.Title = match.Title
	}
	if match.Artist != "" {
		meta.Artist = match.Artist
	}

	return Result{
		Kind:      KindPlainOnly,
		Source:    SourceSecondary,
		Track:     meta,
		PlainText: CleanPlainText(text),
	}
}

// mergeMetadata prefers the source's reported metadata over the
// request's values.
func mergeMetadata(info *track.Info, resp *PrimaryResponse) track.Info {
	meta := *info
	if resp.Title != "" {
		meta.Title = resp.Title
	}
	if resp.Artist != "" {
		meta.Artist = resp.Artist
	}
	if resp.Album != "" {
		meta.Album = resp.Album
	}
	if resp.DurationSecs > 0 {
		meta.DurationMs = int64(resp.DurationSecs * 1000)
	}
	return meta
}
