package a2a

import "fmt"

// DiscoveryError reports a failed or timed-out agent-card handshake. A
// request that routes to the affected agent cannot proceed.
type DiscoveryError struct {
	Agent string
	URL   string
	Err   error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("a2a: discover agent %s at %s: %v", e.Agent, e.URL, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// CallError reports a failed message/send call: transport error, remote-side
// failure signal, or timeout. The owning strategy does not retry.
type CallError struct {
	Agent string
	Err   error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("a2a: call agent %s: %v", e.Agent, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
