package colorutil

import (
	"fmt"
	"math"
)

// HueMax is the largest hue value on the half-scale (0-180) hue circle.
const HueMax = 180

// HSV is a color on OpenCV's 8-bit HSV scale: H in [0,180), S and V in [0,255].
// Band limits may reach HueMax.
type HSV struct {
	H, S, V uint8
}

func (c HSV) String() string {
	return fmt.Sprintf("hsv(%d,%d,%d)", c.H, c.S, c.V)
}

// ToHSV converts c to HSV, rounding each component to the nearest integer.
// Hues that round up to HueMax wrap to 0, as OpenCV's 8-bit conversion does,
// so H is always below HueMax.
func ToHSV(c Color) HSV {
	h, s, v := RGBToHSV(float64(c.R), float64(c.G), float64(c.B))
	return HSV{
		H: uint8(int(math.Round(h)) % HueMax),
		S: uint8(math.Round(s)),
		V: uint8(math.Round(v)),
	}
}

// Band returns the inclusive tolerance window around c.
//
// Saturation and value saturate at 0 and 255. Hue saturates at 0 and is
// clamped to HueMax at the top rather than wrapped around the hue circle, so
// references near either end of the circle get a narrower, asymmetric band.
func (c HSV) Band(tol HSV) (lower, upper HSV) {
	lower = HSV{subSat(c.H, tol.H), subSat(c.S, tol.S), subSat(c.V, tol.V)}
	upper = HSV{addSat(c.H, tol.H), addSat(c.S, tol.S), addSat(c.V, tol.V)}
	if upper.H > HueMax {
		upper.H = HueMax
	}
	if lower.H > HueMax {
		lower.H = HueMax
	}
	return lower, upper
}

// Contains reports whether p lies inside [lower, upper] on every channel.
func (c HSV) Contains(tol, p HSV) bool {
	lower, upper := c.Band(tol)
	return p.H >= lower.H && p.H <= upper.H &&
		p.S >= lower.S && p.S <= upper.S &&
		p.V >= lower.V && p.V <= upper.V
}
