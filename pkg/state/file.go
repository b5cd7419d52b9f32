package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one snapshot file per key in a directory. Keys are
// sanitized into filenames, so any key accepted by the codec is safe.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
// The directory is created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the blob to the key's file with 0644 permissions.
func (s *FileStore) Save(ctx context.Context, key string, data []byte) error {
	return os.WriteFile(s.path(key), data, 0644)
}

// Load reads the key's file, mapping a missing file to ErrNotFound.
func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes the key's file. Missing files are not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key)
	return filepath.Join(s.dir, safe+".nav")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
