package vision

import (
	"image"

	"maglev-tracker/internal/calib"
	"maglev-tracker/internal/locate"
	"maglev-tracker/internal/snapshot"
	"maglev-tracker/pkg/colorutil"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Normalize converts frame in place to 3-channel 8-bit BGR. Frames already in
// that format are left untouched.
func Normalize(frame *gocv.Mat) error {
	if frame.Empty() {
		return errors.New("empty frame")
	}
	if frame.Type() == gocv.MatTypeCV8UC3 {
		return nil
	}

	tmp := gocv.NewMat()
	defer tmp.Close()

	switch frame.Channels() {
	case 1:
		gocv.CvtColor(*frame, &tmp, gocv.ColorGrayToBGR)
	case 4:
		gocv.CvtColor(*frame, &tmp, gocv.ColorBGRAToBGR)
	case 3:
		frame.CopyTo(&tmp)
	default:
		return errors.Errorf("unsupported channel count %d", frame.Channels())
	}

	if tmp.Type() != gocv.MatTypeCV8UC3 {
		tmp.ConvertTo(frame, gocv.MatTypeCV8UC3)
		return nil
	}
	tmp.CopyTo(frame)
	return nil
}

// MatSampler reads RGB colors from a BGR frame.
type MatSampler struct {
	Mat gocv.Mat
}

var _ calib.Sampler = MatSampler{}

// Bounds implements calib.Sampler.
func (s MatSampler) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Mat.Cols(), s.Mat.Rows())
}

// ColorAt implements calib.Sampler. The frame is stored B, G, R.
func (s MatSampler) ColorAt(x, y int) colorutil.Color {
	return colorutil.FromBGR(
		s.Mat.GetUCharAt(y, x*3+0),
		s.Mat.GetUCharAt(y, x*3+1),
		s.Mat.GetUCharAt(y, x*3+2),
	)
}

// MaskToBGR expands a single-channel mask into a 3-channel image for display.
func MaskToBGR(mask gocv.Mat, dst *gocv.Mat) {
	gocv.CvtColor(mask, dst, gocv.ColorGrayToBGR)
}

// DrawMarker draws a filled disc over the tracked position.
func DrawMarker(img *gocv.Mat, ball locate.Ball) {
	gocv.Circle(img, ball.Round(), snapshot.MarkerRadius, colorutil.MarkerRed, -1)
}
