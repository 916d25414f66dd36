package client

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// legacyFileName matches the storage key the old plaintext store used.
const legacyFileName = "xai_api_key"

// FileStore is a file-backed LegacyStore. It holds the credential as
// plaintext, which is exactly why callers migrate away from it.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store rooted at the given directory.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, legacyFileName)}
}

// Get returns the stored credential, or an empty string when nothing is
// stored or the file cannot be read.
func (s *FileStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Set writes the credential to disk.
func (s *FileStore) Set(apiKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return os.WriteFile(s.path, []byte(apiKey), 0o600)
}

// Clear removes the stored credential. A missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
