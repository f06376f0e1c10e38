package storage

import (
	"context"
	"slices"
	"sync"
)

// A MemoryKVStorage lives as long as the process.
type MemoryKVStorage struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryKVStorage() *MemoryKVStorage {
	return &MemoryKVStorage{entries: make(map[string][]byte)}
}

func (s *MemoryKVStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

func (s *MemoryKVStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = slices.Clone(value)
	return nil
}
