package constants

// Handler constants
const (
	// DefaultHandlerPageSize is the default page size for list endpoints
	DefaultHandlerPageSize = 100

	// MaxRequestBodySize is the maximum accepted JSON request body in bytes
	MaxRequestBodySize = 1 << 20
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100

	// AlbumWatchBuffer is the buffer size for album change subscriptions
	AlbumWatchBuffer = 8
)

// Job constants
const (
	// JobRetention is how many finished clustering jobs are kept in memory
	JobRetention = 50
)
