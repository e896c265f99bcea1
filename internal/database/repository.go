package database

import (
	"context"

	"github.com/kozaktomas/lifeline/internal/faces"
)

// AlbumReader provides read-only access to albums
type AlbumReader interface {
	// Get retrieves an album by id, returns ErrAlbumNotFound if missing
	Get(ctx context.Context, id string) (*Album, error)
	// List returns albums ordered by start date, newest first. A non-empty
	// query keeps albums whose title contains it, ignoring case and diacritics.
	List(ctx context.Context, query string) ([]Album, error)
	// Watch emits the full album list on subscribe and after every change
	// until ctx is done. The channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan []Album, error)
}

// AlbumWriter provides write access to albums
type AlbumWriter interface {
	AlbumReader

	// Save inserts the album or replaces the existing one with the same id
	Save(ctx context.Context, album Album) error
	// Delete removes an album, returns ErrAlbumNotFound if missing
	Delete(ctx context.Context, id string) error
}

// FaceStore caches extracted face records per photo so that repeated scans
// skip detection. It satisfies faces.Cache.
type FaceStore interface {
	faces.Cache

	// GetFaces retrieves all faces for a photo ordered by face index
	GetFaces(ctx context.Context, photoID string) ([]faces.FaceRecord, error)
	// IsProcessed checks if detection has been run for a photo (regardless of whether faces were found)
	IsProcessed(ctx context.Context, photoID string) (bool, error)
	// Count returns the total number of cached faces
	Count(ctx context.Context) (int, error)
	// CountProcessed returns how many of the given photos have cached results
	CountProcessed(ctx context.Context, photoIDs []string) (int, error)
}
