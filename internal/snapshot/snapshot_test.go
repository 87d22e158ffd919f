package snapshot

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"maglev-tracker/internal/locate"
	"maglev-tracker/pkg/colorutil"
	"maglev-tracker/pkg/geometry"

	"golang.org/x/image/tiff"
)

func grayImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 60, G: 60, B: 60, A: 255})
		}
	}
	return img
}

func TestAnnotate(t *testing.T) {
	src := grayImage(40, 40)
	ball := &locate.Ball{Point2D: geometry.Point2D{X: 20, Y: 20}}

	out := Annotate(src, ball)

	tests := []struct {
		x, y   int
		marked bool
	}{
		{20, 20, true},
		{29, 20, true},
		{30, 20, false},
		{20, 11, true},
		{0, 0, false},
	}
	for _, tt := range tests {
		got := out.RGBAAt(tt.x, tt.y) == colorutil.MarkerRed
		if got != tt.marked {
			t.Errorf("pixel (%d,%d) marked = %v, want %v", tt.x, tt.y, got, tt.marked)
		}
	}
	if src.RGBAAt(20, 20) == colorutil.MarkerRed {
		t.Error("Annotate modified its input")
	}

	plain := Annotate(src, nil)
	if plain.RGBAAt(20, 20) == colorutil.MarkerRed {
		t.Error("nil ball was marked")
	}
}

func TestSaveFormats(t *testing.T) {
	dir := t.TempDir()
	ball := &locate.Ball{Point2D: geometry.Point2D{X: 5, Y: 5}}

	for _, name := range []string{"out.png", "frame.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			// Saving twice overwrites the same file.
			for i := 0; i < 2; i++ {
				if err := Save(path, grayImage(16, 12), ball); err != nil {
					t.Fatalf("Save: %v", err)
				}
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			var img image.Image
			if filepath.Ext(name) == ".tiff" {
				img, err = tiff.Decode(f)
			} else {
				img, err = png.Decode(f)
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds() != image.Rect(0, 0, 16, 12) {
				t.Errorf("bounds = %v", img.Bounds())
			}
			r, g, b, _ := img.At(5, 5).RGBA()
			if r>>8 != 255 || g != 0 || b != 0 {
				t.Errorf("marker pixel = %d,%d,%d, want red", r>>8, g>>8, b>>8)
			}
		})
	}
}
