package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
)

// FileStore keeps one file per key in a directory.
// Keys are path-escaped, so "allMindMaps" is stored as allMindMaps.json.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrap(BackendFile, "open", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the files.
func (s *FileStore) Dir() string { return s.dir }

// Get reads the file for key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrap(BackendFile, "get", key, err)
	}
	return data, true, nil
}

// Set writes data to a temporary file in the same directory and renames it
// over the old file.
func (s *FileStore) Set(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return wrap(BackendFile, "set", key, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return wrap(BackendFile, "set", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return wrap(BackendFile, "set", key, err)
	}
	if err := tmp.Close(); err != nil {
		return wrap(BackendFile, "set", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return wrap(BackendFile, "set", key, err)
	}
	return nil
}

// Delete removes the file for key.
func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return wrap(BackendFile, "delete", key, err)
}

// Close does nothing for file store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
