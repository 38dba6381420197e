// Package session tracks per-conversation remote context identifiers. The
// mapping is an explicit value passed into each orchestrator run rather
// than hidden client state, so one set of agent clients can serve many
// simultaneous conversations.
package session

import "sync"

// Conversation holds the remote A2A context id established with each agent
// for one caller conversation. Safe for concurrent use.
type Conversation struct {
	id string

	mu       sync.RWMutex
	contexts map[string]string // agent id -> remote context id
}

// NewConversation creates an empty conversation with the given identifier.
func NewConversation(id string) *Conversation {
	return &Conversation{
		id:       id,
		contexts: make(map[string]string),
	}
}

// ID returns the caller-side conversation identifier.
func (c *Conversation) ID() string { return c.id }

// ContextID returns the remote context id for the named agent, or "" when
// no exchange has happened with it yet.
func (c *Conversation) ContextID(agent string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.contexts[agent]
}

// SetContextID records the remote context id reported by the named agent.
// Empty ids are ignored so a response without a context does not clear an
// established one.
func (c *Conversation) SetContextID(agent, contextID string) {
	if contextID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contexts[agent] = contextID
}

// Snapshot copies the agent -> context id mapping for persistence.
func (c *Conversation) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.contexts))
	for k, v := range c.contexts {
		out[k] = v
	}
	return out
}

func (c *Conversation) restore(contexts map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range contexts {
		if v != "" {
			c.contexts[k] = v
		}
	}
}
