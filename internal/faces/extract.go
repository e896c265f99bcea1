package faces

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/lifeline/internal/photo"
)

// ErrDecode marks images that could not be decoded before detection.
var ErrDecode = errors.New("image decode failed")

// Detector finds faces in an encoded image. Boxes are returned in the
// detector's own result order.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]BoundingBox, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, image []byte) ([]BoundingBox, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, image []byte) ([]BoundingBox, error) {
	return f(ctx, image)
}

// ImageLoader reads the encoded bytes of a photo.
type ImageLoader interface {
	ReadImage(ctx context.Context, p photo.Photo) ([]byte, error)
}

// Extract runs the detector on one photo and converts every box into a
// FaceRecord, keeping detector order. A detector error fails the whole photo.
func Extract(ctx context.Context, p photo.Photo, image []byte, d Detector) ([]FaceRecord, error) {
	boxes, err := d.Detect(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("detect faces in photo %s: %w", p.ID, err)
	}

	records := make([]FaceRecord, len(boxes))
	for i, box := range boxes {
		records[i] = NewRecord(p.ID, p.Locator, i, box)
	}
	return records, nil
}
