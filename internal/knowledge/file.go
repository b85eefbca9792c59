package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Errors for knowledge persistence.
var (
	ErrNotFound = errors.New("knowledge file not found")
	ErrCorrupt  = errors.New("knowledge file corrupted")
)

// FileStore persists the knowledge document as pretty-printed JSON,
// a flat object mapping questions to answers.
type FileStore struct {
	path string
}

// NewFileStore creates a file store backed by path. The file itself is
// created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the knowledge document from disk.
// Returns ErrNotFound if the file does not exist and ErrCorrupt if it
// cannot be decoded.
func (f *FileStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return entries, nil
}

// Save writes the knowledge document to disk.
// The parent directory is created if missing. The write is atomic:
// marshal, write to a temp file, rename over the target.
func (f *FileStore) Save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal knowledge: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create knowledge directory: %w", err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write knowledge file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename knowledge file: %w", err)
	}

	return nil
}
