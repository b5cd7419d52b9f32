package state

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by [Store.Load] when no snapshot exists under
// the key.
var ErrNotFound = errors.New("snapshot not found")

// Store persists snapshot blobs under string keys. Implementations:
//
//   - [MemoryStore]: in-process, for tests and ephemeral sessions
//   - [FileStore]: one file per key, for CLI usage
//   - [RedisStore]: Redis-backed, for shared dev environments
//   - [MongoStore]: MongoDB-backed, for durable multi-slot saves
type Store interface {
	// Save writes the blob under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Load returns the blob stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}

// MemoryStore is an in-process Store for development and testing.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Save stores a copy of the blob.
func (s *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

// Load returns a copy of the stored blob, or ErrNotFound.
func (s *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Delete removes the blob under key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Close does nothing.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
