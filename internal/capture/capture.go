// Package capture provides frame sources for the tracking loop: a live camera
// and a cycling list of still images.
package capture

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/tiff"
)

// ErrNoFrame is returned when the source produced no frame this time.
var ErrNoFrame = errors.New("capture: no frame grabbed")

// Camera reads frames from a video device.
type Camera struct {
	vc     *gocv.VideoCapture
	device int
}

// OpenCamera opens video device index device. Width and height, when
// positive, are requested from the driver.
func OpenCamera(device, width, height int) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open camera %d", device)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, errors.Errorf("camera %d is not available", device)
	}
	if width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
	}
	if height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}
	return &Camera{vc: vc, device: device}, nil
}

// Read grabs the next frame into dst. On failure dst is left untouched.
func (c *Camera) Read(dst *gocv.Mat) error {
	next := gocv.NewMat()
	defer next.Close()

	if !c.vc.Read(&next) || next.Empty() {
		return errors.Wrapf(ErrNoFrame, "camera %d", c.device)
	}
	next.CopyTo(dst)
	return nil
}

// Close releases the device.
func (c *Camera) Close() error {
	return c.vc.Close()
}

// Still replays decoded image files in order, wrapping around at the end.
type Still struct {
	frames []gocv.Mat
	next   int
}

// LoadStill decodes PNG, JPEG or TIFF files into frames.
func LoadStill(paths ...string) (*Still, error) {
	if len(paths) == 0 {
		return nil, errors.New("no image files given")
	}
	s := &Still{}
	for _, p := range paths {
		img, err := DecodeFile(p)
		if err != nil {
			s.Close()
			return nil, err
		}
		mat, err := gocv.ImageToMatRGB(img)
		if err != nil {
			s.Close()
			return nil, errors.Wrapf(err, "failed to convert %s", p)
		}
		s.frames = append(s.frames, mat)
	}
	return s, nil
}

// Read copies the next image into dst.
func (s *Still) Read(dst *gocv.Mat) error {
	if len(s.frames) == 0 {
		return ErrNoFrame
	}
	s.frames[s.next].CopyTo(dst)
	s.next = (s.next + 1) % len(s.frames)
	return nil
}

// Len returns the number of frames.
func (s *Still) Len() int {
	return len(s.frames)
}

// Close releases every frame.
func (s *Still) Close() error {
	for i := range s.frames {
		s.frames[i].Close()
	}
	s.frames = nil
	return nil
}

// DecodeFile decodes a PNG, JPEG or TIFF image from disk.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return img, nil
}
