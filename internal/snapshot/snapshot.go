// Package snapshot writes still images of the tracked scene to disk.
package snapshot

import (
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"maglev-tracker/internal/locate"
	"maglev-tracker/pkg/colorutil"
	"maglev-tracker/pkg/geometry"

	"github.com/pkg/errors"
	"golang.org/x/image/tiff"
)

// DefaultPath is where frames are saved when no path is configured.
const DefaultPath = "out.png"

// MarkerRadius is the radius in pixels of the tracked-position marker, both
// on saved frames and on the live view.
const MarkerRadius = 10

// Annotate returns a copy of img with a red disc over ball. A nil ball
// returns an unmarked copy.
func Annotate(img image.Image, ball *locate.Ball) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	if ball == nil {
		return out
	}

	marker := image.Rect(
		int(ball.X)-MarkerRadius, int(ball.Y)-MarkerRadius,
		int(ball.X)+MarkerRadius+2, int(ball.Y)+MarkerRadius+2,
	).Intersect(b)
	for y := marker.Min.Y; y < marker.Max.Y; y++ {
		for x := marker.Min.X; x < marker.Max.X; x++ {
			p := geometry.Point2D{X: float64(x), Y: float64(y)}
			if p.Distance(ball.Point2D) < MarkerRadius {
				out.SetRGBA(x, y, colorutil.MarkerRed)
			}
		}
	}
	return out
}

// Save writes img with ball marked to path, replacing any existing file.
// Paths ending in .tif or .tiff are written as TIFF, everything else as PNG.
func Save(path string, img image.Image, ball *locate.Ball) error {
	if path == "" {
		path = DefaultPath
	}
	out := Annotate(img, ball)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create snapshot")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		err = tiff.Encode(f, out, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, out)
	}
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return errors.Wrap(f.Close(), "failed to write snapshot")
}
