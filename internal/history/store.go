package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store persists history entries
type Store interface {
	Store(entry Entry) (string, error)
}

// FileStore writes entries beneath a base directory
type FileStore struct {
	base string
}

// Force compile-time check for interface implementation
var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at base
func NewFileStore(base string) *FileStore {
	return &FileStore{base: base}
}

// PathFor returns where an entry is written
func (s *FileStore) PathFor(entry Entry) string {
	date := entry.CreatedAt.Format("2006-01-02")
	return filepath.Join(s.base, entry.Category, date, entry.ID+".md")
}

// Store writes the entry and returns its path
func (s *FileStore) Store(entry Entry) (string, error) {
	data, err := entry.Markdown()
	if err != nil {
		return "", err
	}

	path := s.PathFor(entry)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory; %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write history entry; %w", err)
	}

	return path, nil
}

// Load reads one entry from disk
func (s *FileStore) Load(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read history entry; %w", err)
	}
	return ParseMarkdown(data)
}
