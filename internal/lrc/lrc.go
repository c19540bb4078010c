// Package lrc parses line-timestamped lyrics in the LRC format into a
// queryable timeline.
package lrc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// tagPattern matches a [mm:ss.ff] tag followed by the line's text. The
// fraction needs at least one digit; a bare "[mm:ss.]" tag is malformed
// and the whole line is skipped.
var tagPattern = regexp.MustCompile(`\[(\d+):(\d{2})\.(\d{1,3})\](.*)`)

// Line is a single lyric line with its start offset.
type Line struct {
	TimeMs int64
	Text   string
}

// Timeline is an ordered sequence of lines, ascending by TimeMs. It may
// be empty. The parser preserves input order and never re-sorts;
// well-formed LRC files are already time-ascending.
type Timeline []Line

// Parse turns raw LRC text into a Timeline. Lines without a recognizable
// tag are ignored, as are tags whose remaining text is empty after
// trimming (instrumental-gap markers carry nothing to display). Parse
// has no failure mode: unparseable input yields an empty timeline.
func Parse(raw string) Timeline {
	if raw == "" {
		return nil
	}

	var timeline Timeline
	for _, line := range strings.Split(raw, "\n") {
		match := tagPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		minutes, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			continue
		}
		seconds, err := strconv.ParseInt(match[2], 10, 64)
		if err != nil {
			continue
		}
		centis, err := parseCentis(match[3])
		if err != nil {
			continue
		}

		text := strings.TrimSpace(match[4])
		if text == "" {
			continue
		}

		timeline = append(timeline, Line{
			TimeMs: minutes*60_000 + seconds*1_000 + centis*10,
			Text:   text,
		})
	}

	return timeline
}

// parseCentis normalizes a 1-3 digit fraction to centiseconds by
// right-padding or truncating to two digits.
func parseCentis(fraction string) (int64, error) {
	if len(fraction) < 2 {
		fraction += strings.Repeat("0", 2-len(fraction))
	} else {
		fraction = fraction[:2]
	}
	return strconv.ParseInt(fraction, 10, 64)
}

// IndexAt returns the index of the line active at positionMs: the last
// line whose offset is at or before the position. Returns -1 when the
// position is before the first line or the timeline is empty.
func (t Timeline) IndexAt(positionMs int64) int {
	index := -1
	for i, line := range t {
		if line.TimeMs > positionMs {
			break
		}
		index = i
	}
	return index
}

// Format serializes the timeline back into LRC text, one "[mm:ss.ff]"
// tag per line. Parsing the result reproduces the same timeline.
func (t Timeline) Format() string {
	var b strings.Builder
	for i, line := range t {
		if i > 0 {
			b.WriteByte('\n')
		}
		minutes := line.TimeMs / 60_000
		seconds := (line.TimeMs % 60_000) / 1_000
		centis := (line.TimeMs % 1_000) / 10
		fmt.Fprintf(&b, "[%02d:%02d.%02d]%s", minutes, seconds, centis, line.Text)
	}
	return b.String()
}
