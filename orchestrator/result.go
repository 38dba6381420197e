package orchestrator

import (
	"time"

	"github.com/sweetpotato0/agentbridge/payload"
	"github.com/sweetpotato0/agentbridge/routing"
)

// Result is the merged outcome of one orchestrated request. Error is set if
// and only if an unrecoverable failure propagated out of the executing
// strategy; Text, Images, and AgentResponses then reflect whatever partial
// work completed before the failure.
type Result struct {
	// Query is the original user text, before any preprocessing.
	Query string

	// Decision is the routing decision the request executed under.
	Decision routing.Decision

	// Text is the merged text of all participating agents.
	Text string

	// Images are the merged inline attachments, in merge order.
	Images []payload.Image

	// AgentResponses maps agent identifier to that agent's extracted text.
	AgentResponses map[string]string

	// Error is the terminal failure, or "" on success.
	Error string

	// Duration is the wall time of the whole run.
	Duration time.Duration
}

func newResult(query string, decision routing.Decision) *Result {
	return &Result{
		Query:          query,
		Decision:       decision,
		AgentResponses: make(map[string]string),
	}
}

// Failed reports whether the run ended in a terminal failure.
func (r *Result) Failed() bool { return r.Error != "" }
