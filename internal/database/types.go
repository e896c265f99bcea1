package database

import (
	"errors"
	"time"

	"github.com/kozaktomas/lifeline/internal/photo"
)

var (
	// ErrAlbumNotFound is returned when no album has the requested id.
	ErrAlbumNotFound = errors.New("album not found")

	// ErrBackendNotInitialized is returned when no storage backend has been registered.
	ErrBackendNotInitialized = errors.New("database backend not initialized: DATABASE_URL is required")
)

// Album is a named date range of the photo library.
// EndDate is the last instant included in the album.
type Album struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	CoverLocator string    `json:"cover_locator"`
	PhotoCount   int       `json:"photo_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// DateRange returns the album's inclusive range in epoch milliseconds.
func (a Album) DateRange() photo.DateRange {
	return photo.DateRange{Start: a.StartDate.UnixMilli(), End: a.EndDate.UnixMilli()}
}
