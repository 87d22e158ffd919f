package colorutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrDivisionByZero is returned by Div and Rem when a divisor channel is 0.
var ErrDivisionByZero = errors.New("colorutil: division by zero channel")

// Color is an 8-bit RGB triple in canonical R, G, B order.
// Buffers stored B, G, R (OpenCV frames) are reordered at the boundary.
type Color struct {
	R, G, B uint8
}

// Well-known colors.
var (
	ColorBlack = Color{0, 0, 0}
	ColorWhite = Color{255, 255, 255}
	ColorRed   = Color{255, 0, 0}
	ColorGreen = Color{0, 255, 0}
	ColorBlue  = Color{0, 0, 255}
)

// NewColor creates a color from its red, green and blue channels.
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// FromBGR creates a color from channels in B, G, R order.
func FromBGR(b, g, r uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Channels returns the channels in R, G, B order.
func (c Color) Channels() [3]uint8 {
	return [3]uint8{c.R, c.G, c.B}
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// ParseColor accepts "r,g,b", "rgb(r,g,b)" or "#rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return Color{}, errors.Errorf("invalid hex color %q", s)
		}
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return Color{}, errors.Wrapf(err, "invalid hex color %q", s)
		}
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
	}

	s = strings.TrimSuffix(strings.TrimPrefix(s, "rgb("), ")")
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, errors.Errorf("invalid color %q, want r,g,b", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, errors.Wrapf(err, "invalid channel %q", p)
		}
		ch[i] = uint8(v)
	}
	return Color{ch[0], ch[1], ch[2]}, nil
}

// Add returns the channel-wise sum, saturating at 255.
func (c Color) Add(o Color) Color {
	return Color{addSat(c.R, o.R), addSat(c.G, o.G), addSat(c.B, o.B)}
}

// Sub returns the channel-wise difference, saturating at 0.
func (c Color) Sub(o Color) Color {
	return Color{subSat(c.R, o.R), subSat(c.G, o.G), subSat(c.B, o.B)}
}

// Mul returns the channel-wise product, saturating at 255.
func (c Color) Mul(o Color) Color {
	return Color{mulSat(c.R, o.R), mulSat(c.G, o.G), mulSat(c.B, o.B)}
}

// Div returns the channel-wise truncated quotient.
func (c Color) Div(o Color) (Color, error) {
	if o.R == 0 || o.G == 0 || o.B == 0 {
		return Color{}, errors.Wrapf(ErrDivisionByZero, "%s / %s", c, o)
	}
	return Color{c.R / o.R, c.G / o.G, c.B / o.B}, nil
}

// Rem returns the channel-wise remainder.
func (c Color) Rem(o Color) (Color, error) {
	if o.R == 0 || o.G == 0 || o.B == 0 {
		return Color{}, errors.Wrapf(ErrDivisionByZero, "%s %% %s", c, o)
	}
	return Color{c.R % o.R, c.G % o.G, c.B % o.B}, nil
}

// AddScalar adds v to every channel, saturating at 255.
func (c Color) AddScalar(v uint8) Color {
	return c.Add(Color{v, v, v})
}

// SubScalar subtracts v from every channel, saturating at 0.
func (c Color) SubScalar(v uint8) Color {
	return c.Sub(Color{v, v, v})
}

// MulScalar multiplies every channel by v, saturating at 255.
func (c Color) MulScalar(v uint8) Color {
	return c.Mul(Color{v, v, v})
}

// DivScalar divides every channel by v.
func (c Color) DivScalar(v uint8) (Color, error) {
	return c.Div(Color{v, v, v})
}

// RemScalar returns every channel modulo v.
func (c Color) RemScalar(v uint8) (Color, error) {
	return c.Rem(Color{v, v, v})
}

// Neg inverts the color: each channel becomes 255-x.
func (c Color) Neg() Color {
	return Color{255 - c.R, 255 - c.G, 255 - c.B}
}

// Band returns the inclusive tolerance window around c.
// Both bounds saturate, so lower <= c <= upper always holds and the band
// collapses at the channel extremes instead of wrapping.
func (c Color) Band(tolerance uint8) (lower, upper Color) {
	return c.SubScalar(tolerance), c.AddScalar(tolerance)
}

// Contains reports whether p lies inside [lower, upper] on every channel.
func Contains(lower, upper, p Color) bool {
	return p.R >= lower.R && p.R <= upper.R &&
		p.G >= lower.G && p.G <= upper.G &&
		p.B >= lower.B && p.B <= upper.B
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func subSat(a, b uint8) uint8 {
	if b > a {
		return 0
	}
	return a - b
}

func mulSat(a, b uint8) uint8 {
	p := uint16(a) * uint16(b)
	if p > 255 {
		return 255
	}
	return uint8(p)
}
