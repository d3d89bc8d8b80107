package storage

import (
	"context"
	"fmt"
	"sync"
)

// memoryStorage keeps documents in process memory
type memoryStorage struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStorage creates an empty in-memory store
func NewMemoryStorage() KernelStore {
	return &memoryStorage{docs: make(map[string][]byte)}
}

func (s *memoryStorage) Put(ctx context.Context, key string, doc []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), doc...)
	return key, nil
}

func (s *memoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return append([]byte(nil), doc...), nil
}

func (s *memoryStorage) Name() string {
	return "memory"
}
