package capture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"golang.org/x/image/tiff"
)

func writeImage(t *testing.T, name string, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if filepath.Ext(name) == ".tiff" {
		err = tiff.Encode(f, img, nil)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStillCycles(t *testing.T) {
	red := writeImage(t, "red.png", color.RGBA{R: 200, A: 255})
	blue := writeImage(t, "blue.tiff", color.RGBA{B: 150, A: 255})

	s, err := LoadStill(red, blue)
	if err != nil {
		t.Fatalf("LoadStill: %v", err)
	}
	defer s.Close()

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}

	frame := gocv.NewMat()
	defer frame.Close()

	// Frames are BGR: red lands in channel 2, blue in channel 0.
	wants := []struct {
		ch int
		v  uint8
	}{{2, 200}, {0, 150}, {2, 200}}
	for i, w := range wants {
		if err := s.Read(&frame); err != nil {
			t.Fatalf("Read %d: %v", i, err)
		}
		if frame.Type() != gocv.MatTypeCV8UC3 || frame.Rows() != 3 || frame.Cols() != 4 {
			t.Fatalf("Read %d: frame %dx%d type %v", i, frame.Cols(), frame.Rows(), frame.Type())
		}
		if got := frame.GetUCharAt(1, 1*3+w.ch); got != w.v {
			t.Errorf("Read %d: channel %d = %d, want %d", i, w.ch, got, w.v)
		}
	}
}

func TestLoadStillErrors(t *testing.T) {
	if _, err := LoadStill(); err == nil {
		t.Error("LoadStill() with no paths returned nil error")
	}
	if _, err := LoadStill(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadStill(missing) returned nil error")
	}

	var empty Still
	m := gocv.NewMat()
	defer m.Close()
	if err := empty.Read(&m); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Read on empty Still = %v, want ErrNoFrame", err)
	}
}
