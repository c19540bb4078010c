package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
	"github.com/muesli/reflow/wordwrap"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/artwork"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width, height := m.width, m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	palette := m.palette
	if palette == nil {
		palette = artwork.DefaultPalette()
	}

	if !m.hasTrack {
		return m.renderWaiting(palette, width, height)
	}

	var lines []string
	if !m.hideHeader {
		lines = append(lines, m.renderHeader(palette, width)...)
	}

	lines = append(lines, m.renderLyrics(palette, width, height-len(lines))...)

	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderWaiting(palette *artwork.Palette, width, height int) string {
	banner := figure.NewFigure("sxg", "", true).String()
	bannerLines := strings.Split(strings.TrimRight(banner, "\n"), "\n")

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Accent))
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(palette.Future)).
		Italic(true).
		Render("waiting for playback")

	var lines []string
	top := height/2 - len(bannerLines)/2 - 1
	for i := 0; i < top; i++ {
		lines = append(lines, "")
	}
	for _, l := range bannerLines {
		lines = append(lines, centerText(style.Render(l), lipgloss.Width(l), width))
	}
	lines = append(lines, "")
	lines = append(lines, centerText(hint, lipgloss.Width("waiting for playback"), width))

	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}

func (m Model) renderHeader(palette *artwork.Palette, width int) []string {
	trk := m.current.Track

	artWidth, artHeight := 12, 6
	if width < 80 {
		artWidth, artHeight = 8, 4
	}
	if width < 50 {
		artWidth, artHeight = 0, 0
	}

	artLines := artwork.RenderHalfBlockArt(m.cover, artWidth, artHeight)

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Accent)).Bold(true)
	artistStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Active))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Past))

	maxText := width - artWidth - 8
	if maxText < 16 {
		maxText = 16
	}

	info := []string{
		titleStyle.Render(truncate(trk.Title, maxText)),
		artistStyle.Render(truncate(trk.Artist, maxText)),
	}
	if trk.Album != "" {
		info = append(info, dimStyle.Render(truncate(trk.Album, maxText)))
	}
	if m.current.Loading {
		info = append(info, dimStyle.Render("fetching lyrics…"))
	} else if m.current.Result != nil {
		switch m.current.Result.Kind {
		case lyrics.KindPlainOnly:
			info = append(info, dimStyle.Render("unsynced · "+string(m.current.Result.Source)))
		case lyrics.KindTimestamped:
			info = append(info, dimStyle.Render("synced · "+string(m.current.Result.Source)))
		}
	}

	rows := len(artLines)
	if len(info) > rows {
		rows = len(info)
	}

	lines := []string{""}
	for i := 0; i < rows; i++ {
		var row strings.Builder
		if artWidth > 0 {
			row.WriteString("  ")
			if i < len(artLines) {
				row.WriteString(artLines[i])
			} else {
				row.WriteString(strings.Repeat(" ", artWidth))
			}
			row.WriteString("  ")
		} else {
			row.WriteString("  ")
		}
		if i < len(info) {
			row.WriteString(info[i])
		}
		lines = append(lines, row.String())
	}

	lines = append(lines, "")
	if trk.DurationMs > 0 {
		lines = append(lines, m.renderProgress(palette, width))
		lines = append(lines, "")
	}
	return lines
}

func (m Model) renderProgress(palette *artwork.Palette, width int) string {
	barWidth := width - 20
	if barWidth < 20 {
		barWidth = 20
	}

	progress := float64(m.current.PositionMs) / float64(m.current.DurationMs)
	if progress > 1 {
		progress = 1
	}
	if progress < 0 {
		progress = 0
	}
	filled := int(float64(barWidth) * progress)

	filledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Active))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Future)).Faint(true)

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case i < filled:
			bar.WriteString(filledStyle.Render("━"))
		case i == filled:
			bar.WriteString(filledStyle.Render("●"))
		default:
			bar.WriteString(emptyStyle.Render("─"))
		}
	}

	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Past))
	return fmt.Sprintf("  %s  %s  %s",
		timeStyle.Render(formatTime(m.current.PositionMs)),
		bar.String(),
		timeStyle.Render(formatTime(m.current.DurationMs)))
}

func (m Model) renderLyrics(palette *artwork.Palette, width, height int) []string {
	if height < 1 {
		return nil
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Future))

	if m.current.Result != nil {
		switch m.current.Result.Kind {
		case lyrics.KindNotFound:
			return centeredMessage(dimStyle.Render("no lyrics found"), width, height)
		case lyrics.KindFetchError:
			errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
			return centeredMessage(errStyle.Render("lyrics unavailable"), width, height)
		}
	}

	if len(m.current.Lines) == 0 {
		return centeredMessage(dimStyle.Render("♪"), width, height)
	}

	pastStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Past))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Active)).Bold(true)
	futureStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Future))

	index := m.current.Index
	textWidth := width - 8
	if textWidth < 20 {
		textWidth = 20
	}

	// Show the active line centered with context lines around it. With
	// no active line yet, the top of the song scrolls into view.
	context := height / 4
	if context < 2 {
		context = 2
	}

	center := index
	if center < 0 {
		center = 0
	}

	var out []string
	for offset := -context; offset <= context; offset++ {
		i := center + offset
		if i < 0 || i >= len(m.current.Lines) {
			continue
		}

		text := m.current.Lines[i]
		if text == "" {
			text = "···"
		}

		var style lipgloss.Style
		switch {
		case i == index:
			style = activeStyle
		case i < index:
			style = pastStyle
		default:
			style = futureStyle
		}

		for _, wrapped := range strings.Split(wordwrap.String(text, textWidth), "\n") {
			out = append(out, centerText(style.Render(wrapped), lipgloss.Width(wrapped), width))
		}
		out = append(out, "")
	}

	// Center the block vertically.
	if len(out) < height {
		pad := (height - len(out)) / 2
		padded := make([]string, 0, height)
		for i := 0; i < pad; i++ {
			padded = append(padded, "")
		}
		out = append(padded, out...)
	}
	if len(out) > height {
		out = out[:height]
	}
	return out
}

func centeredMessage(rendered string, width, height int) []string {
	lines := make([]string, 0, height)
	for i := 0; i < height/2-1; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, centerText(rendered, lipgloss.Width(rendered), width))
	return lines
}

func centerText(text string, visualWidth, screenWidth int) string {
	padding := (screenWidth - visualWidth) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat(" ", padding) + text
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatTime(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
