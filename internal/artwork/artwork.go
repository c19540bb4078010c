// Package artwork turns a track's album art into terminal colors: a
// small palette for styling the lyric view and an optional half-block
// rendering of the cover itself.
package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

// Palette holds the colors derived from one cover. Active styles the
// current lyric line, Past and Future the lines around it, Accent the
// header and track metadata.
type Palette struct {
	Active string
	Past   string
	Future string
	Accent string
}

// DefaultPalette is used before any artwork resolves and whenever
// extraction fails.
func DefaultPalette() *Palette {
	return &Palette{
		Active: "#8BA4E8",
		Past:   "#6272A4",
		Future: "#44475A",
		Accent: "#E8A4C8",
	}
}

// Fetch loads the cover behind an http(s) or file URL.
func Fetch(ctx context.Context, artworkURL string) (image.Image, error) {
	if artworkURL == "" {
		return nil, errors.New("empty artwork url")
	}

	if path, ok := strings.CutPrefix(artworkURL, "file://"); ok {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open artwork file: %w", err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode artwork image: %w", err)
		}
		return img, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create artwork request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artwork: %w", err)
	}
	return img, nil
}

// ExtractPalette clusters the cover's dominant colors and assigns them
// to roles by saturation and brightness. It never fails: anything that
// goes wrong falls back to the default palette.
func ExtractPalette(img image.Image) *Palette {
	if img == nil {
		return DefaultPalette()
	}

	clusters, err := prominentcolor.KmeansWithAll(5, img, prominentcolor.ArgumentDefault, prominentcolor.DefaultSize, nil)
	if err != nil || len(clusters) < 3 {
		return DefaultPalette()
	}

	type scored struct {
		c          prominentcolor.ColorItem
		sat        float64
		brightness float64
		score      float64
	}

	metrics := make([]scored, len(clusters))
	for i, c := range clusters {
		r := float64(c.Color.R) / 255
		g := float64(c.Color.G) / 255
		b := float64(c.Color.B) / 255

		max := math.Max(math.Max(r, g), b)
		min := math.Min(math.Min(r, g), b)

		var sat float64
		if max > 0 {
			sat = (max - min) / max
		}

		metrics[i] = scored{
			c:          c,
			sat:        sat,
			brightness: max,
			// mid-brightness saturated colors read best on a dark
			// terminal background
			score: sat * (1 - math.Abs(max-0.6)),
		}
	}

	var active, accent scored
	bestScore := -1.0
	for _, m := range metrics {
		if m.score > bestScore && m.brightness > 0.3 && m.sat > 0.2 {
			bestScore = m.score
			active = m
		}
	}
	if bestScore < 0 {
		return DefaultPalette()
	}

	for _, m := range metrics {
		if m.c.Color != active.c.Color && m.sat > 0.15 && m.brightness > 0.3 {
			accent = m
			break
		}
	}
	if accent.c.Color == active.c.Color {
		accent = active
	}

	activeHex := boost(active.c.Color, active.brightness)
	return &Palette{
		Active: activeHex,
		Past:   dim(active.c.Color, 0.55),
		Future: dim(active.c.Color, 0.3),
		Accent: boost(accent.c.Color, accent.brightness),
	}
}

// boost lifts colors too dark to read and flattens colors too bright
// to style against.
func boost(c prominentcolor.ColorRGB, brightness float64) string {
	r, g, b := c.R, c.G, c.B

	if brightness < 0.4 && brightness > 0 {
		factor := math.Min(0.4/brightness, 2.5)
		r = uint32(math.Min(255, float64(r)*factor))
		g = uint32(math.Min(255, float64(g)*factor))
		b = uint32(math.Min(255, float64(b)*factor))
	}

	if brightness > 0.85 {
		avg := float64(r+g+b) / 3
		r = uint32(avg + (float64(r)-avg)*0.7)
		g = uint32(avg + (float64(g)-avg)*0.7)
		b = uint32(avg + (float64(b)-avg)*0.7)
	}

	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func dim(c prominentcolor.ColorRGB, factor float64) string {
	return fmt.Sprintf("#%02X%02X%02X",
		uint32(float64(c.R)*factor),
		uint32(float64(c.G)*factor),
		uint32(float64(c.B)*factor))
}

// RenderHalfBlockArt draws the cover with ▀ cells, two image rows per
// terminal row. Returns nil when the target is too small to bother.
func RenderHalfBlockArt(img image.Image, targetWidth, targetHeight int) []string {
	if img == nil || targetWidth < 4 || targetHeight < 2 {
		return nil
	}

	resized := resize.Resize(uint(targetWidth), uint(targetHeight*2), img, resize.Lanczos3)
	bounds := resized.Bounds()

	lines := make([]string, targetHeight)
	for y := 0; y < targetHeight; y++ {
		var line strings.Builder
		topY := y * 2
		bottomY := topY + 1

		for x := 0; x < bounds.Dx(); x++ {
			topR, topG, topB, topA := resized.At(bounds.Min.X+x, bounds.Min.Y+topY).RGBA()

			bottomR, bottomG, bottomB, bottomA := topR, topG, topB, topA
			if bottomY < bounds.Dy() {
				bottomR, bottomG, bottomB, bottomA = resized.At(bounds.Min.X+x, bounds.Min.Y+bottomY).RGBA()
			}

			if topA>>8 < 128 && bottomA>>8 < 128 {
				line.WriteString(" ")
				continue
			}

			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", topR>>8, topG>>8, topB>>8))).
				Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", bottomR>>8, bottomG>>8, bottomB>>8)))
			line.WriteString(style.Render("▀"))
		}
		lines[y] = line.String()
	}

	return lines
}
