// Package runlog records a history of orchestration runs. Appending is
// best-effort from the orchestrator's point of view: a store failure is
// logged and never fails the request that produced the entry.
package runlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one completed orchestration run.
type Entry struct {
	ID         string        `json:"id"`
	Query      string        `json:"query"`
	Strategy   string        `json:"strategy"`
	Workflow   string        `json:"workflow,omitempty"`
	Agents     []string      `json:"agents"`
	TextLength int           `json:"text_length"`
	ImageCount int           `json:"image_count"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Store persists run entries.
type Store interface {
	// Append records one run.
	Append(ctx context.Context, entry *Entry) error

	// List returns the most recent entries, newest first, up to limit.
	// A limit <= 0 returns all entries.
	List(ctx context.Context, limit int) ([]*Entry, error)
}

// NewEntryID generates a unique run identifier.
func NewEntryID() string {
	return "run_" + uuid.NewString()
}
