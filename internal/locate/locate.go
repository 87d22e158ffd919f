// Package locate reduces a binary mask to at most one tracked position.
package locate

import (
	"maglev-tracker/pkg/geometry"

	"github.com/pkg/errors"
)

// Region is a detected connected area of matching pixels.
type Region struct {
	Center geometry.Point2D // centroid in frame pixels
	Size   float64          // detector-reported diameter, 0 when unknown
}

// Detector finds bright regions in a mask of type M.
type Detector[M any] interface {
	Detect(mask M) ([]Region, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc[M any] func(mask M) ([]Region, error)

// Detect calls f(mask).
func (f DetectorFunc[M]) Detect(mask M) ([]Region, error) {
	return f(mask)
}

// Ball is the tracked object position for one frame. It carries no identity
// across frames.
type Ball struct {
	geometry.Point2D
	Regions int // how many regions the detector reported for the frame
}

// Localizer applies the first-region-wins policy to detector output.
type Localizer[M any] struct {
	detector Detector[M]
}

// New creates a localizer over d.
func New[M any](d Detector[M]) *Localizer[M] {
	return &Localizer[M]{detector: d}
}

// Locate returns the first region the detector reports. No regions is not an
// error: ok is false. Additional regions are ignored; Ball.Regions records how
// many there were.
func (l *Localizer[M]) Locate(mask M) (ball Ball, ok bool, err error) {
	regions, err := l.detector.Detect(mask)
	if err != nil {
		return Ball{}, false, errors.Wrap(err, "blob detection failed")
	}
	if len(regions) == 0 {
		return Ball{}, false, nil
	}
	return Ball{Point2D: regions[0].Center, Regions: len(regions)}, true, nil
}
