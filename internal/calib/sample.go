package calib

import (
	"image"
	"math"

	"maglev-tracker/pkg/colorutil"

	"gonum.org/v1/gonum/stat"
)

// SamplePatch returns the color at pt, or with radius > 0 the channel-wise
// mean of the square patch around pt clipped to the frame.
func SamplePatch(frame Sampler, pt image.Point, radius int) colorutil.Color {
	if radius <= 0 {
		return frame.ColorAt(pt.X, pt.Y)
	}

	patch := image.Rect(pt.X-radius, pt.Y-radius, pt.X+radius+1, pt.Y+radius+1).Intersect(frame.Bounds())
	n := patch.Dx() * patch.Dy()
	rs := make([]float64, 0, n)
	gs := make([]float64, 0, n)
	bs := make([]float64, 0, n)
	for y := patch.Min.Y; y < patch.Max.Y; y++ {
		for x := patch.Min.X; x < patch.Max.X; x++ {
			c := frame.ColorAt(x, y)
			rs = append(rs, float64(c.R))
			gs = append(gs, float64(c.G))
			bs = append(bs, float64(c.B))
		}
	}
	if len(rs) == 0 {
		return frame.ColorAt(pt.X, pt.Y)
	}

	return colorutil.NewColor(meanChannel(rs), meanChannel(gs), meanChannel(bs))
}

func meanChannel(xs []float64) uint8 {
	return uint8(math.Min(math.Round(stat.Mean(xs, nil)), 255))
}
