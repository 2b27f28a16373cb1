package blobstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the blob as a single file on local disk.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path, creating the
// parent directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve blob path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &FileStore{path: absPath}, nil
}

// Get returns the file contents, or ErrNotFound if the file does not exist.
func (s *FileStore) Get() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob file: %w", err)
	}
	return data, nil
}

// Set overwrites the file unconditionally.
func (s *FileStore) Set(data []byte) error {
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write blob file: %w", err)
	}
	return nil
}

// Clear removes the file. A missing file is not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob file: %w", err)
	}
	return nil
}
