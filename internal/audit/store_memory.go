package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps records in memory. Used by tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of everything appended so far.
func (s *InMemoryStore) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record{}, s.records...)
}
