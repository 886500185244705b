package profile

import (
	"context"
	"sync"

	"loan-clarity-resolver/internal/models"
)

// MemoryStore is an in-process Store used in tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.LoanProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]models.LoanProfile)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (models.LoanProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[userID]; ok {
		return p.Clone(), nil
	}
	return models.DefaultProfile(), nil
}

func (s *MemoryStore) Put(_ context.Context, userID string, p models.LoanProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = p.Clone()
	return nil
}
