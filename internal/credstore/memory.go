package credstore

import (
	"context"
	"sync"

	"strade-dashboard/internal/events"
)

// MemoryStore is the in-process credential store backend. It mirrors browser
// local storage semantics: values live until explicitly cleared, and every
// mutation raises a change notification on the event bus.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]string
	eventBus *events.EventBus // May be nil
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore(eventBus *events.EventBus) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]string),
		eventBus: eventBus,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()

	s.notify(key)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	_, existed := s.data[key]
	delete(s.data, key)
	s.mu.Unlock()

	if existed {
		s.notify(key)
	}
	return nil
}

// Clear removes all session keys. Idempotent.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	changed := false
	for _, key := range SessionKeys {
		if _, ok := s.data[key]; ok {
			delete(s.data, key)
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.notify("")
	}
	return nil
}

func (s *MemoryStore) Snapshot(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]string, len(SessionKeys))
	for _, key := range SessionKeys {
		if value, ok := s.data[key]; ok {
			snapshot[key] = value
		}
	}
	return snapshot, nil
}

func (s *MemoryStore) notify(key string) {
	if s.eventBus != nil {
		s.eventBus.PublishCredentialsChanged(key)
	}
}
