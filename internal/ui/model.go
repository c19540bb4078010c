// Package ui renders the lyric view. It consumes the coordination
// loop's updates and owns nothing but presentation state.
package ui

import (
	"context"
	"image"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/artwork"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/pool"
)

// UpdateMsg carries one coordination loop publication into the
// bubbletea loop.
type UpdateMsg struct {
	Update pool.Update
	OK     bool
}

// ArtworkMsg reports a finished cover fetch. Key ties it to the track
// it was fetched for; a mismatch at delivery time means the track
// changed and the result is stale.
type ArtworkMsg struct {
	Key     string
	Image   image.Image
	Palette *artwork.Palette
	Err     error
}

type Model struct {
	updates <-chan pool.Update
	onQuit  func()

	current    pool.Update
	hasTrack   bool
	artworkKey string
	cover      image.Image
	palette    *artwork.Palette

	hideHeader bool
	quitting   bool
	width      int
	height     int
}

// New builds the view over a running session's update stream. onQuit
// runs once when the user quits; pass the session's Stop.
func New(updates <-chan pool.Update, hideHeader bool, onQuit func()) Model {
	return Model{
		updates:    updates,
		onQuit:     onQuit,
		hideHeader: hideHeader,
		palette:    artwork.DefaultPalette(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.listen()
}

func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		return UpdateMsg{Update: update, OK: ok}
	}
}

func fetchArtworkCmd(key, url string) tea.Cmd {
	return func() tea.Msg {
		img, err := artwork.Fetch(context.Background(), url)
		if err != nil {
			return ArtworkMsg{Key: key, Err: err}
		}
		return ArtworkMsg{Key: key, Image: img, Palette: artwork.ExtractPalette(img)}
	}
}
