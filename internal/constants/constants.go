// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Pagination constants
const (
	// DefaultPageSize is the default number of photos to fetch per PhotoPrism API page
	DefaultPageSize = 1000

	// MaxPhotosPerFetch is the maximum number of photos listed in a single operation
	MaxPhotosPerFetch = 100000
)

// Processing constants
const (
	// DefaultConcurrency is the default number of parallel scan workers
	DefaultConcurrency = 5

	// MaxConcurrency caps the configurable number of scan workers
	MaxConcurrency = 64

	// MaxImageSize is the maximum accepted image payload in bytes (100MB)
	MaxImageSize = 100 << 20
)

// Album constants
const (
	// DefaultAlbumTitle is used when an album is created without a title
	DefaultAlbumTitle = "New Album"
)
