package consent

import (
	"context"
	"sync"

	id "datatrail/pkg/domain"
	"datatrail/pkg/platform/sentinel"
)

type entryKey struct {
	subject  id.Principal
	category id.DataCategory
}

type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[entryKey]Consent
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[entryKey]Consent)}
}

func (s *InMemoryStore) Put(_ context.Context, consent Consent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entryKey{consent.Subject, consent.Category}] = consent
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, subject id.Principal, category id.DataCategory) (Consent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.entries[entryKey{subject, category}]
	if !ok {
		return Consent{}, sentinel.ErrNotFound
	}
	return c, nil
}
