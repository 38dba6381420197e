// Package store provides runlog.Store backends.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sweetpotato0/agentbridge/runlog"
)

// InMemoryStore keeps run entries in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []*runlog.Entry
}

// NewInMemoryStore creates an empty in-memory run store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Append records one run.
func (s *InMemoryStore) Append(ctx context.Context, entry *runlog.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.ID == "" {
		entry.ID = runlog.NewEntryID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// List returns the most recent entries, newest first.
func (s *InMemoryStore) List(ctx context.Context, limit int) ([]*runlog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*runlog.Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Count returns the number of stored entries.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
