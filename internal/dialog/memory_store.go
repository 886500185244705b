package dialog

import (
	"context"
	"sync"
	"time"
)

// MemoryPendingStore is an in-process PendingStore for tests and local
// development. Entries expire lazily on read.
type MemoryPendingStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	req       *PendingRequest
	expiresAt time.Time
}

func NewMemoryPendingStore(ttl time.Duration) *MemoryPendingStore {
	return &MemoryPendingStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (s *MemoryPendingStore) Get(_ context.Context, conversationID string) (*PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[conversationID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, conversationID)
		return nil, nil
	}
	return entry.req, nil
}

func (s *MemoryPendingStore) Put(_ context.Context, conversationID string, req *PendingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[conversationID] = memoryEntry{req: req, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryPendingStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, conversationID)
	return nil
}
