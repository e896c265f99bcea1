package faces

// BoundingBox is a detected face rectangle in raw pixel coordinates.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// BoxFromCorners converts a detector bbox [x1, y1, x2, y2] to a BoundingBox.
// ok is false when the slice does not hold exactly four values.
func BoxFromCorners(bbox []float64) (BoundingBox, bool) {
	if len(bbox) != 4 {
		return BoundingBox{}, false
	}
	return BoundingBox{Left: bbox[0], Top: bbox[1], Right: bbox[2], Bottom: bbox[3]}, true
}

// BoxFromRelative converts a relative [x, y, w, h] box (0-1) to pixel coordinates.
func BoxFromRelative(x, y, w, h float64, width, height int) BoundingBox {
	fw, fh := float64(width), float64(height)
	return BoundingBox{
		Left:   x * fw,
		Top:    y * fh,
		Right:  (x + w) * fw,
		Bottom: (y + h) * fh,
	}
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.Right - b.Left
}

// ExactCenter returns the geometric center of the box.
func (b BoundingBox) ExactCenter() (x, y float64) {
	return (b.Left + b.Right) / 2, (b.Top + b.Bottom) / 2
}
