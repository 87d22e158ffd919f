package calib

import (
	"sync/atomic"

	"maglev-tracker/pkg/colorutil"
)

// ToleranceValue is a snapshot of the tolerance cells read once per frame.
type ToleranceValue struct {
	Scalar uint8         // half-width of the RGB band
	HSV    colorutil.HSV // per-channel half-widths of the HSV band
}

// Tolerance holds the band half-widths written by UI sliders. Every channel is
// an independent atomic cell, so sliders never contend with each other or with
// the tracking loop. A reader may see a mix of old and new channels for one
// frame.
type Tolerance struct {
	scalar atomic.Uint32
	hue    atomic.Uint32
	sat    atomic.Uint32
	val    atomic.Uint32
}

// NewTolerance creates cells holding v.
func NewTolerance(v ToleranceValue) *Tolerance {
	t := &Tolerance{}
	t.Store(v)
	return t
}

// Store writes every cell. Each cell is updated independently.
func (t *Tolerance) Store(v ToleranceValue) {
	t.SetScalar(int(v.Scalar))
	t.SetHue(int(v.HSV.H))
	t.SetSaturation(int(v.HSV.S))
	t.SetValue(int(v.HSV.V))
}

// SetScalar stores the RGB tolerance, clamped to [0,255].
func (t *Tolerance) SetScalar(v int) { t.scalar.Store(uint32(clampInt(v, 255))) }

// SetHue stores the hue tolerance, clamped to [0,180].
func (t *Tolerance) SetHue(v int) { t.hue.Store(uint32(clampInt(v, colorutil.HueMax))) }

// SetSaturation stores the saturation tolerance, clamped to [0,255].
func (t *Tolerance) SetSaturation(v int) { t.sat.Store(uint32(clampInt(v, 255))) }

// SetValue stores the value tolerance, clamped to [0,255].
func (t *Tolerance) SetValue(v int) { t.val.Store(uint32(clampInt(v, 255))) }

// Load reads every cell.
func (t *Tolerance) Load() ToleranceValue {
	return ToleranceValue{
		Scalar: uint8(t.scalar.Load()),
		HSV: colorutil.HSV{
			H: uint8(t.hue.Load()),
			S: uint8(t.sat.Load()),
			V: uint8(t.val.Load()),
		},
	}
}

func clampInt(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
