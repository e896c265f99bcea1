package database

import (
	"context"
	"fmt"
	"sync"
)

var (
	mu          sync.RWMutex
	backendName string
	albumWriter func() AlbumWriter
	faceStore   func() FaceStore
)

// RegisterAlbumBackend registers the album repository constructor of a backend.
// This is called by the backend packages to avoid import cycles.
func RegisterAlbumBackend(name string, writer func() AlbumWriter) {
	mu.Lock()
	defer mu.Unlock()
	backendName = name
	albumWriter = writer
}

// RegisterFaceStore registers the face cache constructor. Backends without a
// face cache do not call it.
func RegisterFaceStore(store func() FaceStore) {
	mu.Lock()
	defer mu.Unlock()
	faceStore = store
}

// Reset clears all registrations.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	backendName = ""
	albumWriter = nil
	faceStore = nil
}

// IsInitialized returns whether an album backend has been registered.
func IsInitialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return albumWriter != nil
}

// BackendName returns the name of the registered backend, or "".
func BackendName() string {
	mu.RLock()
	defer mu.RUnlock()
	return backendName
}

// GetAlbumWriter returns an AlbumWriter from the registered backend
func GetAlbumWriter(ctx context.Context) (AlbumWriter, error) {
	mu.RLock()
	defer mu.RUnlock()
	if albumWriter == nil {
		return nil, ErrBackendNotInitialized
	}
	return albumWriter(), nil
}

// GetAlbumReader returns an AlbumReader from the registered backend
func GetAlbumReader(ctx context.Context) (AlbumReader, error) {
	return GetAlbumWriter(ctx)
}

// GetFaceStore returns the registered face cache
func GetFaceStore(ctx context.Context) (FaceStore, error) {
	mu.RLock()
	defer mu.RUnlock()
	if faceStore == nil {
		return nil, fmt.Errorf("%s backend has no face cache: %w", backendName, ErrBackendNotInitialized)
	}
	return faceStore(), nil
}
