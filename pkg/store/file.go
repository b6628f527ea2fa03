// Package store provides persistence backends for collection documents and
// fetched catalogs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/joeblew999/fontdue/pkg/config"
)

// FileStore keeps the collection document in a JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a file store using the default collection path.
func NewFileStore() *FileStore {
	return NewFileStoreAt(config.GetCollectionPath())
}

// NewFileStoreAt creates a file store at the specified path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the document file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document from disk. A missing file is not an error.
func (s *FileStore) Load(_ context.Context) (*collection.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}

	var doc collection.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse collection %s: %w", s.path, err)
	}
	return &doc, nil
}

// Save writes the document to disk, replacing the previous file atomically
func (s *FileStore) Save(_ context.Context, doc *collection.Document) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// ensureDir creates the document directory if it doesn't exist
func (s *FileStore) ensureDir() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create collection directory: %w", err)
	}
	return nil
}
