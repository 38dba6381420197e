// Package store provides session.Store backends.
package store

import (
	"context"
	"sync"
)

// InMemoryStore keeps conversation context mappings in process memory.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]map[string]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		conversations: make(map[string]map[string]string),
	}
}

// Load returns the saved mapping for the conversation, or an empty map.
func (s *InMemoryStore) Load(ctx context.Context, id string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	saved, ok := s.conversations[id]
	if !ok {
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(saved))
	for k, v := range saved {
		out[k] = v
	}
	return out, nil
}

// Save replaces the saved mapping for the conversation.
func (s *InMemoryStore) Save(ctx context.Context, id string, contexts map[string]string) error {
	copied := make(map[string]string, len(contexts))
	for k, v := range contexts {
		copied[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[id] = copied
	return nil
}

// Delete removes the conversation.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, id)
	return nil
}

// Count returns the number of stored conversations.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
