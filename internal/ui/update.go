package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/artwork"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case UpdateMsg:
		return m.handleUpdate(msg)

	case ArtworkMsg:
		return m.handleArtwork(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case "tab", "i":
		m.hideHeader = !m.hideHeader
		return m, nil
	}

	return m, nil
}

func (m Model) handleUpdate(msg UpdateMsg) (tea.Model, tea.Cmd) {
	if !msg.OK {
		// Session ended underneath us.
		m.quitting = true
		return m, tea.Quit
	}

	cmds := []tea.Cmd{m.listen()}

	prevKey := ""
	if m.hasTrack && m.current.Track != nil {
		prevKey = m.current.Track.Key()
	}

	m.current = msg.Update
	m.hasTrack = m.current.Track != nil

	if m.hasTrack && m.current.Track.Key() != prevKey {
		m.cover = nil
		m.palette = artwork.DefaultPalette()
		m.artworkKey = m.current.Track.Key()
		if url := m.current.Track.ArtworkURL; url != "" {
			cmds = append(cmds, fetchArtworkCmd(m.artworkKey, url))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleArtwork(msg ArtworkMsg) (tea.Model, tea.Cmd) {
	if msg.Key != m.artworkKey {
		// The track changed while the cover was downloading.
		return m, nil
	}
	if msg.Err != nil {
		return m, nil
	}

	m.cover = msg.Image
	if msg.Palette != nil {
		m.palette = msg.Palette
	}
	return m, nil
}
