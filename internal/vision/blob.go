package vision

import (
	"maglev-tracker/internal/locate"
	"maglev-tracker/pkg/geometry"

	"gocv.io/x/gocv"
)

// BlobDetector finds white regions in a binary mask with OpenCV's
// SimpleBlobDetector. Only colour filtering is enabled: any white region is
// reported, whatever its area or shape.
type BlobDetector struct {
	detector gocv.SimpleBlobDetector
}

var _ locate.Detector[gocv.Mat] = (*BlobDetector)(nil)

// NewBlobDetector creates a detector for white (255) blobs.
func NewBlobDetector() *BlobDetector {
	params := gocv.NewSimpleBlobDetectorParams()
	params.SetFilterByColor(true)
	params.SetBlobColor(255)
	params.SetFilterByArea(false)
	params.SetFilterByCircularity(false)
	params.SetFilterByConvexity(false)
	params.SetFilterByInertia(false)

	return &BlobDetector{detector: gocv.NewSimpleBlobDetectorWithParams(params)}
}

// Detect implements locate.Detector. An empty or all-black mask yields no regions.
func (b *BlobDetector) Detect(mask gocv.Mat) ([]locate.Region, error) {
	if mask.Empty() || gocv.CountNonZero(mask) == 0 {
		return nil, nil
	}

	keypoints := b.detector.Detect(mask)
	regions := make([]locate.Region, len(keypoints))
	for i, kp := range keypoints {
		regions[i] = locate.Region{
			Center: geometry.Point2D{X: kp.X, Y: kp.Y},
			Size:   kp.Size,
		}
	}
	return regions, nil
}

// Close releases the underlying detector.
func (b *BlobDetector) Close() error {
	return b.detector.Close()
}
