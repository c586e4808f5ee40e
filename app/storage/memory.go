package storage

import (
	"context"
	"sync"
)

// MemorySlot keeps the value in process memory. Nothing survives a restart;
// it backs tests and throwaway sessions.
type MemorySlot struct {
	mu     sync.RWMutex
	value  []byte
	writes int
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.value == nil {
		return nil, nil
	}
	out := make([]byte, len(s.value))
	copy(out, s.value)
	return out, nil
}

func (s *MemorySlot) Write(ctx context.Context, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Writes counts calls to Write.
func (s *MemorySlot) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *MemorySlot) Close(ctx context.Context) error { return nil }
