package canvas

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func TestViewToFrame(t *testing.T) {
	tests := []struct {
		name   string
		pos    fyne.Position
		view   fyne.Size
		fw, fh int
		want   image.Point
		ok     bool
	}{
		{"exact fit", fyne.NewPos(10, 20), fyne.NewSize(640, 480), 640, 480, image.Pt(10, 20), true},
		{"half scale", fyne.NewPos(100, 50), fyne.NewSize(320, 240), 640, 480, image.Pt(200, 100), true},
		{"pillarbox", fyne.NewPos(60, 10), fyne.NewSize(200, 100), 100, 100, image.Pt(10, 10), true},
		{"letterbox", fyne.NewPos(10, 60), fyne.NewSize(100, 200), 100, 100, image.Pt(10, 10), true},
		{"left bar", fyne.NewPos(10, 10), fyne.NewSize(200, 100), 100, 100, image.Pt(-40, 10), true},
		{"no frame", fyne.NewPos(10, 10), fyne.NewSize(200, 100), 0, 0, image.Point{}, false},
		{"no area", fyne.NewPos(0, 0), fyne.NewSize(0, 0), 100, 100, image.Point{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ViewToFrame(tt.pos, tt.view, tt.fw, tt.fh)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ViewToFrame = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestVideoViewTap(t *testing.T) {
	test.NewApp()

	var taps []image.Point
	v := NewVideoView(func(x, y int) {
		taps = append(taps, image.Pt(x, y))
	})
	v.Resize(fyne.NewSize(200, 100))

	// No frame yet: nothing to map onto.
	test.TapAt(v, fyne.NewPos(100, 50))
	if len(taps) != 0 {
		t.Fatalf("tap before first frame reported %v", taps)
	}

	v.Show(image.NewRGBA(image.Rect(0, 0, 100, 100)))
	if w, h := v.FrameSize(); w != 100 || h != 100 {
		t.Fatalf("FrameSize = %dx%d", w, h)
	}

	test.TapAt(v, fyne.NewPos(100, 50))
	test.TapAt(v, fyne.NewPos(300, 50))
	if len(taps) != 1 || taps[0] != image.Pt(50, 50) {
		t.Errorf("taps = %v, want [(50,50)]", taps)
	}
}

func TestVideoViewRender(t *testing.T) {
	test.NewApp()

	v := NewVideoView(nil)
	if img := v.render(20, 10); img.At(10, 5) != (color.RGBA{}) {
		t.Errorf("empty view drew %v", img.At(10, 5))
	}

	red := color.RGBA{R: 255, A: 255}
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			frame.SetRGBA(x, y, red)
		}
	}
	v.Show(frame)

	// 20x10 view: the square frame fills the middle 10x10, bars either side.
	img := v.render(20, 10)
	if got := img.At(10, 5); got != red {
		t.Errorf("centre = %v, want red", got)
	}
	if got := img.At(2, 5); got != (color.RGBA{}) {
		t.Errorf("left bar = %v, want transparent", got)
	}
}

func TestVideoViewShowWhileRendering(t *testing.T) {
	test.NewApp()

	v := NewVideoView(nil)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 50; i++ {
			v.Show(image.NewRGBA(image.Rect(0, 0, i, i)))
		}
	}()
	for i := 0; i < 50; i++ {
		v.render(40, 40)
		v.FrameSize()
	}
	wg.Wait()

	if w, h := v.FrameSize(); w != 50 || h != 50 {
		t.Errorf("FrameSize = %dx%d, want 50x50", w, h)
	}
}
