// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kozaktomas/lifeline/internal/database"
	"github.com/kozaktomas/lifeline/internal/faces"
	"github.com/kozaktomas/lifeline/internal/photo"
)

// MockAlbumStore is an in-memory implementation of database.AlbumWriter
type MockAlbumStore struct {
	mu     sync.RWMutex
	albums map[string]database.Album
	feed   *database.ChangeFeed

	// Error injection
	GetError    error
	ListError   error
	SaveError   error
	DeleteError error
	WatchError  error
}

// NewMockAlbumStore creates a new mock album store
func NewMockAlbumStore() *MockAlbumStore {
	return &MockAlbumStore{
		albums: make(map[string]database.Album),
		feed:   database.NewChangeFeed(),
	}
}

// AddAlbum adds an album without notifying watchers
func (m *MockAlbumStore) AddAlbum(a database.Album) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.albums[a.ID] = a
}

// Get retrieves an album by id
func (m *MockAlbumStore) Get(ctx context.Context, id string) (*database.Album, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.albums[id]
	if !ok {
		return nil, database.ErrAlbumNotFound
	}
	return &a, nil
}

// List returns albums newest first, filtered by title
func (m *MockAlbumStore) List(ctx context.Context, query string) ([]database.Album, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	result := make([]database.Album, 0, len(m.albums))
	for _, a := range m.albums {
		result = append(result, a)
	}
	m.mu.RUnlock()

	slices.SortFunc(result, func(a, b database.Album) int {
		if c := b.StartDate.Compare(a.StartDate); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return database.FilterAlbums(result, query), nil
}

// Save stores an album and notifies watchers
func (m *MockAlbumStore) Save(ctx context.Context, a database.Album) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	m.albums[a.ID] = a
	m.mu.Unlock()
	m.feed.Notify()
	return nil
}

// Delete removes an album and notifies watchers
func (m *MockAlbumStore) Delete(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	_, ok := m.albums[id]
	delete(m.albums, id)
	m.mu.Unlock()
	if !ok {
		return database.ErrAlbumNotFound
	}
	m.feed.Notify()
	return nil
}

// Watch streams the album list on subscribe and after every write
func (m *MockAlbumStore) Watch(ctx context.Context) (<-chan []database.Album, error) {
	if m.WatchError != nil {
		return nil, m.WatchError
	}
	changes, unsubscribe := m.feed.Subscribe()
	listAll := func(ctx context.Context) ([]database.Album, error) { return m.List(ctx, "") }
	return database.StreamAlbums(ctx, zerolog.Nop(), listAll, changes, unsubscribe), nil
}

// MockFaceStore is an in-memory implementation of database.FaceStore
type MockFaceStore struct {
	mu           sync.RWMutex
	faces        map[string][]faces.FaceRecord
	fingerprints map[string]string
	SaveCalls    int

	// Error injection
	LoadError error
	SaveError error
}

// NewMockFaceStore creates a new mock face store
func NewMockFaceStore() *MockFaceStore {
	return &MockFaceStore{
		faces:        make(map[string][]faces.FaceRecord),
		fingerprints: make(map[string]string),
	}
}

// LoadFaces returns cached faces and whether the photo was processed with the same fingerprint
func (m *MockFaceStore) LoadFaces(ctx context.Context, p photo.Photo) ([]faces.FaceRecord, bool, error) {
	if m.LoadError != nil {
		return nil, false, m.LoadError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.faces[p.ID]
	if !ok || m.fingerprints[p.ID] != p.Fingerprint() {
		return nil, false, nil
	}
	return slices.Clone(f), true, nil
}

// SaveFaces replaces the cached faces of a photo
func (m *MockFaceStore) SaveFaces(ctx context.Context, p photo.Photo, records []faces.FaceRecord) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faces[p.ID] = slices.Clone(records)
	m.fingerprints[p.ID] = p.Fingerprint()
	m.SaveCalls++
	return nil
}

// GetFaces returns cached faces of a photo
func (m *MockFaceStore) GetFaces(ctx context.Context, photoID string) ([]faces.FaceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.faces[photoID]), nil
}

// IsProcessed reports whether the photo has cached results
func (m *MockFaceStore) IsProcessed(ctx context.Context, photoID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.faces[photoID]
	return ok, nil
}

// Count returns the total number of cached faces
func (m *MockFaceStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, f := range m.faces {
		n += len(f)
	}
	return n, nil
}

// CountProcessed returns how many of the given photos have cached results
func (m *MockFaceStore) CountProcessed(ctx context.Context, photoIDs []string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, id := range photoIDs {
		if _, ok := m.faces[id]; ok {
			n++
		}
	}
	return n, nil
}

var (
	_ database.AlbumWriter = (*MockAlbumStore)(nil)
	_ database.FaceStore   = (*MockFaceStore)(nil)
)
