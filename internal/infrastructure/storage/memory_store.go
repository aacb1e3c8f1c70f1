package storage

import (
	"client_portal/internal/usecase/interfaces"
	"context"
	"fmt"
	"strings"
	"sync"
)

const memoryScheme = "mem://"

// MemoryStore keeps documents in process. It backs local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ interfaces.IDocumentStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, path string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return "", fmt.Errorf("empty object path")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok {
		s.objects[path] = append([]byte(nil), data...)
	}
	return memoryScheme + path, nil
}

func (s *MemoryStore) Get(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := strings.CutPrefix(url, memoryScheme)
	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrDocumentNotFound, url)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrDocumentNotFound, url)
	}
	return append([]byte(nil), data...), nil
}

// Len reports how many objects are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
