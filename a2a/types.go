// Package a2a implements the client side of the Agent2Agent (A2A) protocol:
// agent-card discovery and JSON-RPC message exchange with independently
// hosted remote agents. Field names use camelCase JSON tags to conform to
// the A2A protocol specification.
package a2a

import "encoding/json"

// AgentCard describes a remote agent's advertised identity and capabilities.
// It is served at /.well-known/agent.json by A2A-compliant agents.
type AgentCard struct {
	// Name is the agent's display name.
	Name string `json:"name"`
	// Description is a human-readable summary of what the agent does.
	Description string `json:"description,omitempty"`
	// URL is the agent's A2A endpoint.
	URL string `json:"url,omitempty"`
	// Version is the agent implementation version.
	Version string `json:"version,omitempty"`
	// Skills enumerates the agent's advertised skills.
	Skills []AgentSkill `json:"skills,omitempty"`
}

// AgentSkill is a single capability advertised on an agent card.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// Part is one content part of a message or artifact. Exactly one of Text,
// File, or Data is meaningful depending on Kind ("text", "file", "data").
type Part struct {
	Kind string          `json:"kind"`
	Text string          `json:"text,omitempty"`
	File *FileContent    `json:"file,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// FileContent carries a file payload inline (base64 in Bytes) or by URI.
type FileContent struct {
	Name     string `json:"name,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Bytes    string `json:"bytes,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// Message is a single message in an A2A task conversation.
type Message struct {
	Kind      string  `json:"kind,omitempty"`
	MessageID string  `json:"messageId,omitempty"`
	Role      string  `json:"role"`
	Parts     []*Part `json:"parts"`
	ContextID string  `json:"contextId,omitempty"`
	TaskID    string  `json:"taskId,omitempty"`
}

// TaskStatus is the state of a task at a point in time. State follows the
// protocol's lifecycle values ("submitted", "working", "completed", ...).
type TaskStatus struct {
	State     string   `json:"state"`
	Message   *Message `json:"message,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// Task is the remote agent's unit of work. Status holds the terminal status
// message; History holds prior status messages in the order they were
// emitted, including intermediate "working" updates that may carry files
// before the task completes.
type Task struct {
	ID        string      `json:"id"`
	ContextID string      `json:"contextId,omitempty"`
	Kind      string      `json:"kind,omitempty"`
	Status    *TaskStatus `json:"status,omitempty"`
	History   []*Message  `json:"history,omitempty"`
	Artifacts []*Artifact `json:"artifacts,omitempty"`
}

// Artifact is an output attached to a task.
type Artifact struct {
	ArtifactID string  `json:"artifactId,omitempty"`
	Name       string  `json:"name,omitempty"`
	Parts      []*Part `json:"parts"`
}

// Response is the normalized result of one message/send exchange: the
// ordered sequence of tasks the agent reported. Agents that reply with a
// bare message (no task envelope) are represented as a single synthetic
// task whose status carries that message.
type Response struct {
	Tasks []*Task
}

// ContextID returns the remote conversation context established by this
// exchange, or "" when the agent reported none. Used to pin follow-up
// messages of the same conversation to the remote context.
func (r *Response) ContextID() string {
	if r == nil {
		return ""
	}
	for _, t := range r.Tasks {
		if t != nil && t.ContextID != "" {
			return t.ContextID
		}
	}
	return ""
}
