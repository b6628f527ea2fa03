package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/joeblew999/fontdue/pkg/collection"
)

// MemoryStore keeps the document serialized in memory, so callers never
// share state with the store.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*collection.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil, nil
	}
	var doc collection.Document
	if err := json.Unmarshal(s.data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MemoryStore) Save(_ context.Context, doc *collection.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}
