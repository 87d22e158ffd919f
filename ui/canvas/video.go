// Package canvas provides the live video view the operator clicks on to pick
// calibration colours.
package canvas

import (
	"image"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
)

// VideoView shows the latest frame scaled to fit and reports taps in frame
// pixel coordinates. Show may be called from any goroutine.
type VideoView struct {
	widget.BaseWidget

	raster *fynecanvas.Raster

	mu    sync.Mutex
	frame image.Image

	onTap func(x, y int)
}

// NewVideoView creates an empty view. onTap may be nil.
func NewVideoView(onTap func(x, y int)) *VideoView {
	v := &VideoView{onTap: onTap}
	v.raster = fynecanvas.NewRaster(v.render)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.raster.SetMinSize(fyne.NewSize(320, 240))
	v.ExtendBaseWidget(v)
	return v
}

// Show replaces the displayed frame. The view keeps frame, so the caller must
// not modify it afterwards.
func (v *VideoView) Show(frame image.Image) {
	v.mu.Lock()
	v.frame = frame
	v.mu.Unlock()

	v.raster.Refresh()
}

// FrameSize returns the size of the last frame shown.
func (v *VideoView) FrameSize() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.frame == nil {
		return 0, 0
	}
	b := v.frame.Bounds()
	return b.Dx(), b.Dy()
}

// render draws the latest frame into a w x h pixel image with contain-fit.
// Fyne calls it from its render goroutine.
func (v *VideoView) render(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	v.mu.Lock()
	frame := v.frame
	v.mu.Unlock()
	if frame == nil {
		return dst
	}

	fb := frame.Bounds()
	if fb.Empty() || w <= 0 || h <= 0 {
		return dst
	}
	scale := math.Min(float64(w)/float64(fb.Dx()), float64(h)/float64(fb.Dy()))
	dw := int(math.Round(float64(fb.Dx()) * scale))
	dh := int(math.Round(float64(fb.Dy()) * scale))
	x0, y0 := (w-dw)/2, (h-dh)/2
	draw.NearestNeighbor.Scale(dst, image.Rect(x0, y0, x0+dw, y0+dh), frame, fb, draw.Src, nil)
	return dst
}

// Tapped converts the tap to frame coordinates and reports it. Taps on the
// letterbox bars are reported too, with coordinates outside the frame.
func (v *VideoView) Tapped(ev *fyne.PointEvent) {
	if v.onTap == nil {
		return
	}

	// Workaround for Fyne bug: reject clicks outside widget bounds
	size := v.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	w, h := v.FrameSize()
	pt, ok := ViewToFrame(ev.Position, size, w, h)
	if !ok {
		return
	}
	v.onTap(pt.X, pt.Y)
}

// CreateRenderer implements fyne.Widget.
func (v *VideoView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// ViewToFrame maps a position in a view of the given size onto a frame of
// frameW x frameH drawn with contain-fit (scaled uniformly, centred). It
// fails only when there is no frame or the view has no area.
func ViewToFrame(pos fyne.Position, view fyne.Size, frameW, frameH int) (image.Point, bool) {
	if frameW <= 0 || frameH <= 0 || view.Width <= 0 || view.Height <= 0 {
		return image.Point{}, false
	}

	scale := view.Width / float32(frameW)
	if s := view.Height / float32(frameH); s < scale {
		scale = s
	}
	offX := (view.Width - float32(frameW)*scale) / 2
	offY := (view.Height - float32(frameH)*scale) / 2

	fx := (pos.X - offX) / scale
	fy := (pos.Y - offY) / scale
	return image.Pt(floor(fx), floor(fy)), true
}

func floor(f float32) int {
	i := int(f)
	if f < 0 && float32(i) != f {
		i--
	}
	return i
}
