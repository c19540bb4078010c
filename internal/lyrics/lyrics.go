// Package lyrics resolves a track to lyric text, preferring a
// timestamp-capable primary source and falling back to a plain-text
// secondary source.
package lyrics

import (
	"errors"
	"strings"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lrc"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/track"
)

// ErrNotFound is returned by source clients when they have no match for
// the requested track.
var ErrNotFound = errors.New("lyrics: not found")

// Source names where a result came from.
type Source string

const (
	SourcePrimary   Source = "lrclib"
	SourceSecondary Source = "genius"
)

// Kind discriminates the Result variants. Consumers must handle all
// four; the resolver never returns anything else.
type Kind int

const (
	// KindTimestamped carries a parsed timeline.
	KindTimestamped Kind = iota
	// KindPlainOnly carries untimed text.
	KindPlainOnly
	// KindNotFound means no source had a match.
	KindNotFound
	// KindFetchError means resolution failed; Err holds the reason.
	KindFetchError
)

// Result is the outcome of one resolution. Exactly one variant applies,
// selected by Kind.
type Result struct {
	Kind   Kind
	Source Source

	// Track carries the source-reported metadata when present, falling
	// back to the request's values. The source may have corrected
	// capitalization or aliases.
	Track track.Info

	// Timeline is set for KindTimestamped.
	Timeline lrc.Timeline
	// PlainText is set for KindPlainOnly, and for KindTimestamped when
	// the source also supplied an untimed rendition.
	PlainText string

	// Err is set for KindFetchError.
	Err error
}

// Synced reports whether the result carries per-line timestamps.
func (r Result) Synced() bool {
	return r.Kind == KindTimestamped
}

// SplitPlainLines splits untimed lyric text into displayable lines,
// dropping blank ones. The proportional cursor estimates against the
// returned slice.
func SplitPlainLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
