package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/service"
)

// MemoryStore keeps documents in process memory. Nothing survives Close.
type MemoryStore struct {
	docs map[string][]byte
	mu   sync.RWMutex
}

var _ service.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Get returns a copy of the stored document or common.ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateGet(ctx, key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", key, common.ErrNotFound)
	}
	return append([]byte(nil), value...), nil
}

// Set stores a copy of the document.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateSet(ctx, key, value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := validateGet(ctx, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, key)
	return nil
}

// Keys lists the stored document keys in key order.
func (s *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close drops every document.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[string][]byte)
	return nil
}
