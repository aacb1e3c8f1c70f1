package memory

import (
	"client_portal/internal/usecase/interfaces"
	"context"
	"fmt"
	"sync"
)

// Sequence is a process-local allocator. Numbers restart at 1 with the process.
type Sequence struct {
	mu       sync.Mutex
	counters map[string]int64
}

var _ interfaces.ISequenceAllocator = (*Sequence)(nil)

func NewSequence() *Sequence {
	return &Sequence{counters: make(map[string]int64)}
}

func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if name == "" {
		return 0, fmt.Errorf("sequence name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name]++
	return s.counters[name], nil
}
