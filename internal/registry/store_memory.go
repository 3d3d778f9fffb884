package registry

import (
	"context"
	"sync"

	id "datatrail/pkg/domain"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	verified map[id.Principal]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{verified: make(map[id.Principal]bool)}
}

func (s *InMemoryStore) SetVerified(_ context.Context, org id.Principal, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[org] = verified
	return nil
}

func (s *InMemoryStore) IsVerified(_ context.Context, org id.Principal) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verified[org], nil
}
