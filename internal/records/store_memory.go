package records

import (
	"context"
	"sync"

	id "datatrail/pkg/domain"
	"datatrail/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	logs map[id.Principal][]DataRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{logs: make(map[id.Principal][]DataRecord)}
}

func (s *InMemoryStore) Append(_ context.Context, record DataRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Index = len(s.logs[record.Subject])
	s.logs[record.Subject] = append(s.logs[record.Subject], record)
	return record.Index, nil
}

func (s *InMemoryStore) Redact(_ context.Context, subject id.Principal, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.logs[subject]
	if index < 0 || index >= len(log) {
		return sentinel.ErrOutOfRange
	}
	log[index].Redacted = true
	return nil
}

func (s *InMemoryStore) Count(_ context.Context, subject id.Principal) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs[subject]), nil
}

func (s *InMemoryStore) Get(_ context.Context, subject id.Principal, index int) (DataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log := s.logs[subject]
	if index < 0 || index >= len(log) {
		return DataRecord{}, sentinel.ErrOutOfRange
	}
	return log[index], nil
}
