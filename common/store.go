package common

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by a KeyValueStore when a key has never been
// written. Check it with errors.Is.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore defines a minimal interface for a byte-oriented key/value
// store. The values are stored as raw []byte, which you can marshal/unmarshal
// from JSON or other formats as needed.
//
// For example, you could back this with:
//   - an in-memory map
//   - a directory of files
//   - Redis
//   - or any other key/value system
//
// Implementations must allow concurrent Get/Put from multiple goroutines;
// concurrent writes to the same key are last-write-wins.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is a map-backed KeyValueStore, mainly useful in tests and
// short-lived scripts.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ KeyValueStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
