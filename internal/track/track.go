package track

// Info identifies one track as reported by the playback source. It is
// immutable once fetched; a new Info is built on every detected change.
type Info struct {
	Artist     string
	Title      string
	Album      string
	DurationMs int64
	ArtworkURL string
	ID         string
}

// Key is the fetch-suppression key: two polls with the same key never
// trigger a second lyric or video lookup.
func (t *Info) Key() string {
	if t == nil {
		return ""
	}
	return t.Artist + "-" + t.Title
}

func (t *Info) IsValid() bool {
	if t == nil {
		return false
	}
	return t.Title != "" && t.Artist != ""
}

func (t *Info) IsSameTrack(other *Info) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.ID != "" && other.ID != "" {
		return t.ID == other.ID
	}
	return t.Title == other.Title && t.Artist == other.Artist
}

// DurationSecs returns the whole-second duration used as a lookup hint,
// or 0 when the duration is unknown.
func (t *Info) DurationSecs() int64 {
	if t == nil || t.DurationMs <= 0 {
		return 0
	}
	return t.DurationMs / 1000
}
