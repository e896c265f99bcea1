// Package faces turns detector output into compact per-face feature records and
// runs detection over a batch of photos.
package faces

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrDuplicateFaceID is returned when two records in one batch share an id.
var ErrDuplicateFaceID = errors.New("duplicate face id")

// FaceRecord is the feature representation of one detected face.
// The feature vector is (CenterX, CenterY, Size) where Size is the box width.
type FaceRecord struct {
	ID      string  `json:"id"`
	PhotoID string  `json:"photo_id"`
	Locator string  `json:"locator"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Size    float64 `json:"size"`
}

// Features returns the clustering feature vector.
func (f FaceRecord) Features() [3]float64 {
	return [3]float64{f.CenterX, f.CenterY, f.Size}
}

// FaceID builds the batch-unique id of the index-th face in a photo.
func FaceID(photoID string, index int) string {
	return photoID + "_" + strconv.Itoa(index)
}

// NewRecord builds the record for the index-th face found in a photo.
func NewRecord(photoID, locator string, index int, box BoundingBox) FaceRecord {
	cx, cy := box.ExactCenter()
	return FaceRecord{
		ID:      FaceID(photoID, index),
		PhotoID: photoID,
		Locator: locator,
		CenterX: cx,
		CenterY: cy,
		Size:    box.Width(),
	}
}

// CheckUnique fails with ErrDuplicateFaceID on the first repeated id.
func CheckUnique(records []FaceRecord) error {
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if first, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateFaceID, r.ID, first, i)
		}
		seen[r.ID] = i
	}
	return nil
}
