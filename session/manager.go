package session

import (
	"context"
	"fmt"
	"sync"
)

// Store persists conversation context mappings between process restarts.
type Store interface {
	// Load returns the saved agent -> context id mapping, or an empty map
	// when the conversation is unknown.
	Load(ctx context.Context, id string) (map[string]string, error)

	// Save replaces the saved mapping for the conversation.
	Save(ctx context.Context, id string, contexts map[string]string) error

	// Delete removes the conversation.
	Delete(ctx context.Context, id string) error
}

// Manager hands out Conversation values backed by a Store. Conversations
// are cached in-process; concurrent GetOrCreate calls for the same id
// return the same value.
type Manager struct {
	store Store

	mu            sync.Mutex
	conversations map[string]*Conversation
}

// NewManager creates a manager over the given store. A nil store keeps
// conversations in-process only.
func NewManager(store Store) *Manager {
	return &Manager{
		store:         store,
		conversations: make(map[string]*Conversation),
	}
}

// GetOrCreate returns the conversation with the given id, loading persisted
// context ids on first access.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (*Conversation, error) {
	m.mu.Lock()
	if conv, ok := m.conversations[id]; ok {
		m.mu.Unlock()
		return conv, nil
	}
	conv := NewConversation(id)
	m.conversations[id] = conv
	m.mu.Unlock()

	if m.store != nil {
		contexts, err := m.store.Load(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load conversation %s: %w", id, err)
		}
		conv.restore(contexts)
	}
	return conv, nil
}

// Save persists the conversation's current context mapping.
func (m *Manager) Save(ctx context.Context, conv *Conversation) error {
	if m.store == nil || conv == nil {
		return nil
	}
	if err := m.store.Save(ctx, conv.ID(), conv.Snapshot()); err != nil {
		return fmt.Errorf("save conversation %s: %w", conv.ID(), err)
	}
	return nil
}

// Delete drops the conversation from the cache and the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.conversations, id)
	m.mu.Unlock()

	if m.store == nil {
		return nil
	}
	return m.store.Delete(ctx, id)
}
