package approval

import (
	"context"
	"sync"

	id "datatrail/pkg/domain"
)

type relationKey struct {
	kind    id.ApprovalKind
	subject id.Principal
	grantee id.Principal
}

type InMemoryStore struct {
	mu        sync.RWMutex
	relations map[relationKey]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{relations: make(map[relationKey]bool)}
}

func (s *InMemoryStore) Set(_ context.Context, kind id.ApprovalKind, subject, grantee id.Principal, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relations[relationKey{kind, subject, grantee}] = approved
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, kind id.ApprovalKind, subject, grantee id.Principal) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.relations[relationKey{kind, subject, grantee}], nil
}
