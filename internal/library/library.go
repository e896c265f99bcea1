// Package library lists photos from a photo source and reads their image bytes.
package library

import (
	"context"
	"errors"

	"github.com/kozaktomas/lifeline/internal/photo"
)

// ErrNotFound is returned when a photo's image can no longer be read from its source.
var ErrNotFound = errors.New("photo not found")

// ErrImageTooLarge is returned when an image exceeds the accepted payload size.
var ErrImageTooLarge = errors.New("image too large")

// Source lists photos whose capture timestamp falls in the range, newest first.
// A zero range lists every photo.
type Source interface {
	ListPhotos(ctx context.Context, r photo.DateRange) ([]photo.Photo, error)
}

// Loader reads the encoded image bytes of a photo.
type Loader interface {
	ReadImage(ctx context.Context, p photo.Photo) ([]byte, error)
}

// Library is a source that can also load what it lists.
type Library interface {
	Source
	Loader
}

// sortNewestFirst orders photos by timestamp descending, then by id.
func sortNewestFirst(a, b photo.Photo) int {
	switch {
	case a.Timestamp > b.Timestamp:
		return -1
	case a.Timestamp < b.Timestamp:
		return 1
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}
