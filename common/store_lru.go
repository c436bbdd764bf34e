package common

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUStore is a memory-bounded KeyValueStore. Evicted entries simply look
// never-written again, which is safe for callers that treat a missing key
// as "not requested yet".
type LRUStore struct {
	cache *lru.Cache[string, []byte]
}

var _ KeyValueStore = (*LRUStore)(nil)

func NewLRUStore(size int) (*LRUStore, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &LRUStore{cache: cache}, nil
}

func (s *LRUStore) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

func (s *LRUStore) Put(_ context.Context, key string, value []byte) error {
	s.cache.Add(key, value)
	return nil
}

func (s *LRUStore) Delete(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}
