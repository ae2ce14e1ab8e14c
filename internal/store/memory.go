package store

import (
	"context"
	"sync"
)

// MemoryStore implements Store with an in-memory byte slice. Used for
// testing and for running without a configured backend (no persistence
// across restarts).
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot []byte
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to avoid external mutation.
	buf := make([]byte, len(snapshot))
	copy(buf, snapshot)
	s.snapshot = buf
	return nil
}

func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	buf := make([]byte, len(s.snapshot))
	copy(buf, s.snapshot)
	return buf, nil
}
