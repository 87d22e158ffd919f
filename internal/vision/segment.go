// Package vision holds the OpenCV side of the tracker: colour segmentation of
// camera frames into binary masks, blob detection on those masks, and frame
// helpers for sampling and display.
package vision

import (
	"maglev-tracker/internal/calib"
	"maglev-tracker/pkg/colorutil"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Strategy selects the colour space segmentation bands in.
type Strategy string

const (
	// StrategyRGB bands directly on the frame's B, G, R channels.
	StrategyRGB Strategy = "rgb"
	// StrategyHSV converts the frame to HSV and bands on H, S, V.
	StrategyHSV Strategy = "hsv"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyRGB, StrategyHSV:
		return Strategy(s), nil
	default:
		return "", errors.Errorf("unknown segmentation strategy %q (want rgb or hsv)", s)
	}
}

// Segmenter turns a BGR frame into a binary mask: 255 where every channel of
// the pixel lies inside the tolerance band around ref, 0 elsewhere.
type Segmenter interface {
	Segment(frame gocv.Mat, ref colorutil.Color, tol calib.ToleranceValue, mask *gocv.Mat) error
	Close() error
}

// NewSegmenter creates the segmenter for s.
func NewSegmenter(s Strategy) (Segmenter, error) {
	switch s {
	case StrategyRGB:
		return &RGBSegmenter{}, nil
	case StrategyHSV:
		return NewHSVSegmenter(), nil
	default:
		return nil, errors.Errorf("unknown segmentation strategy %q", s)
	}
}

// RGBSegmenter bands on the raw frame with a single scalar tolerance.
type RGBSegmenter struct{}

// Segment implements Segmenter using tol.Scalar.
func (s *RGBSegmenter) Segment(frame gocv.Mat, ref colorutil.Color, tol calib.ToleranceValue, mask *gocv.Mat) error {
	if err := checkFrame(frame); err != nil {
		return err
	}
	lower, upper := ref.Band(tol.Scalar)
	gocv.InRangeWithScalar(frame, bgrScalar(lower), bgrScalar(upper), mask)
	return nil
}

// Close implements Segmenter.
func (s *RGBSegmenter) Close() error { return nil }

// HSVSegmenter converts each frame to HSV once, into a reused buffer, and bands
// on the result with per-channel tolerances. The hue band is clamped at 180,
// not wrapped.
type HSVSegmenter struct {
	hsv gocv.Mat
}

// NewHSVSegmenter allocates the conversion buffer.
func NewHSVSegmenter() *HSVSegmenter {
	return &HSVSegmenter{hsv: gocv.NewMat()}
}

// Segment implements Segmenter using tol.HSV.
func (s *HSVSegmenter) Segment(frame gocv.Mat, ref colorutil.Color, tol calib.ToleranceValue, mask *gocv.Mat) error {
	if err := checkFrame(frame); err != nil {
		return err
	}
	gocv.CvtColor(frame, &s.hsv, gocv.ColorBGRToHSV)

	lower, upper := colorutil.ToHSV(ref).Band(tol.HSV)
	gocv.InRangeWithScalar(s.hsv, hsvScalar(lower), hsvScalar(upper), mask)
	return nil
}

// Close releases the conversion buffer.
func (s *HSVSegmenter) Close() error {
	return s.hsv.Close()
}

func checkFrame(frame gocv.Mat) error {
	if frame.Empty() {
		return errors.New("empty frame")
	}
	if frame.Type() != gocv.MatTypeCV8UC3 {
		return errors.Errorf("frame type %v, want 8UC3", frame.Type())
	}
	return nil
}

// bgrScalar orders c the way OpenCV frames store it.
func bgrScalar(c colorutil.Color) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
}

func hsvScalar(c colorutil.HSV) gocv.Scalar {
	return gocv.NewScalar(float64(c.H), float64(c.S), float64(c.V), 0)
}
