package artwork

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestImage(t *testing.T, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "cover.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFetchFileURL(t *testing.T) {
	path := writeTestImage(t, color.RGBA{R: 200, G: 40, B: 40, A: 255})

	img, err := Fetch(context.Background(), "file://"+path)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("width = %d, want 32", img.Bounds().Dx())
	}
}

func TestFetchEmptyURL(t *testing.T) {
	if _, err := Fetch(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestExtractPaletteNilFallsBack(t *testing.T) {
	p := ExtractPalette(nil)
	if *p != *DefaultPalette() {
		t.Errorf("palette = %+v, want default", p)
	}
}

func TestRenderHalfBlockArt(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 80, B: 200, A: 255})
		}
	}

	lines := RenderHalfBlockArt(img, 8, 4)
	if len(lines) != 4 {
		t.Fatalf("len(lines) = %d, want 4", len(lines))
	}
	for i, line := range lines {
		if line == "" {
			t.Errorf("line %d empty", i)
		}
	}

	if RenderHalfBlockArt(nil, 8, 4) != nil {
		t.Error("nil image must render nothing")
	}
	if RenderHalfBlockArt(img, 2, 1) != nil {
		t.Error("tiny target must render nothing")
	}
}
