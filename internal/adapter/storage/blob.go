// internal/adapter/storage/blob.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a key has no stored blob.
var ErrNotFound = errors.New("blob not found")

// BlobStore persists opaque byte blobs by key.
type BlobStore interface {
	Store(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// FileStore is the local-filesystem blob store used as the persistence
// fallback. Each key becomes one JSON file under the store directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Store writes the blob to <dir>/<key>.json, creating the directory as
// needed.
func (s *FileStore) Store(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("writing blob %q: %w", key, err)
	}
	return nil
}

// Load reads the blob for key, returning ErrNotFound when absent.
func (s *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading blob %q: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) path(key string) string {
	key = strings.TrimSuffix(key, ".json")
	return filepath.Join(s.dir, key+".json")
}
