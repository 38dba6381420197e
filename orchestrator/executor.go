package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sweetpotato0/agentbridge/a2a"
	"github.com/sweetpotato0/agentbridge/payload"
	"github.com/sweetpotato0/agentbridge/pkg/telemetry"
	"github.com/sweetpotato0/agentbridge/routing"
	"github.com/sweetpotato0/agentbridge/session"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AgentClient is the sole capability the executor requires of a remote
// agent. *a2a.Client satisfies it; tests substitute fakes.
type AgentClient interface {
	Name() string
	Run(ctx context.Context, text string) (*a2a.Response, error)
	RunContext(ctx context.Context, contextID, text string) (*a2a.Response, error)
}

// ExecState tracks one strategy invocation. Completed and Failed are
// terminal; the executor never retries.
type ExecState int32

const (
	StateIdle ExecState = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s ExecState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// executor runs exactly one routing decision against the relevant agents
// and merges their payloads into the result. A fresh executor is created
// per request; agents and conversation are read-only during execution.
type executor struct {
	agents map[routing.AgentID]AgentClient
	conv   *session.Conversation
	tracer trace.Tracer
	logger *slog.Logger
	state  ExecState
}

func newExecutor(agents map[routing.AgentID]AgentClient, conv *session.Conversation, tracer trace.Tracer, logger *slog.Logger) *executor {
	return &executor{
		agents: agents,
		conv:   conv,
		tracer: tracer,
		logger: logger,
		state:  StateIdle,
	}
}

// execute dispatches the decision to its pattern. processed carries the
// preprocessed query for the data stages; original is the untouched user
// text forwarded to the visualization agent. Agent failures propagate to
// the caller uncaught; partial work already merged into res is preserved.
func (e *executor) execute(ctx context.Context, decision routing.Decision, processed, original string, res *Result) error {
	e.state = StateRunning

	var err error
	switch decision.Strategy {
	case routing.StrategySequential:
		err = e.runSequential(ctx, processed, original, res)
	case routing.StrategyConcurrent:
		err = e.runConcurrent(ctx, original, res)
	case routing.StrategyThreeStage:
		err = e.runThreeStage(ctx, processed, original, res)
	default:
		err = e.runDirect(ctx, decision.Agents[0], original, res)
	}

	if err != nil {
		e.state = StateFailed
		return err
	}
	e.state = StateCompleted
	return nil
}

// runDirect calls a single agent and adopts its payload wholesale.
func (e *executor) runDirect(ctx context.Context, id routing.AgentID, query string, res *Result) error {
	p, err := e.call(ctx, id, query, false)
	if err != nil {
		return err
	}
	res.Text = p.Text
	res.Images = p.Images
	res.AgentResponses[string(id)] = p.Text
	return nil
}

// runSequential runs the structural agent over the preprocessed query, then
// the visualization agent over its output plus the original request. The
// visualization call starts only after the structural call has fully
// completed.
func (e *executor) runSequential(ctx context.Context, processed, original string, res *Result) error {
	ctx, span := e.tracer.Start(ctx, "chart_workflow")
	span.SetAttributes(attribute.String("workflow.type", "sequential_chart"))
	defer func() { telemetry.End(span, nil) }()

	structural, err := e.call(ctx, routing.AgentStructural, processed, false)
	if err != nil {
		return err
	}
	res.AgentResponses[string(routing.AgentStructural)] = structural.Text

	prompt := fmt.Sprintf("Create a bar chart for this data:\n\n%s\n\nOriginal request: %s", structural.Text, original)
	viz, err := e.call(ctx, routing.AgentVisualization, prompt, true)
	if err != nil {
		return err
	}
	res.AgentResponses[string(routing.AgentVisualization)] = viz.Text

	res.Text = fmt.Sprintf("Structural Data:\n%s\n\nVisualization:\n%s", structural.Text, viz.Text)
	res.Images = viz.Images
	span.SetAttributes(attribute.Int("total.images", len(res.Images)))
	return nil
}

// runConcurrent fans the query out to the structural and catalog agents.
// Both calls are initiated before either is awaited; the join waits for
// both to finish so a failed branch never discards its sibling's output.
func (e *executor) runConcurrent(ctx context.Context, query string, res *Result) error {
	structural, catalog, err := e.fanOut(ctx, query, res)
	if err != nil {
		return err
	}

	res.Text = fmt.Sprintf("=== Structural ===\n%s\n\n=== Catalog ===\n%s", structural.Text, catalog.Text)
	res.Images = append(append([]payload.Image{}, structural.Images...), catalog.Images...)
	return nil
}

// runThreeStage fans out structural and catalog over the preprocessed
// query, then feeds both outputs to the visualization agent together with
// the original request.
func (e *executor) runThreeStage(ctx context.Context, processed, original string, res *Result) error {
	structural, catalog, err := e.fanOut(ctx, processed, res)
	if err != nil {
		return err
	}

	combined := fmt.Sprintf("=== Structural Data ===\n%s\n\n=== Catalog Standards ===\n%s", structural.Text, catalog.Text)
	prompt := fmt.Sprintf("Create a comparison visualization for this data:\n\n%s\n\nOriginal request: %s", combined, original)

	viz, err := e.call(ctx, routing.AgentVisualization, prompt, true)
	if err != nil {
		// The data stages completed; surface what they produced.
		res.Text = combined
		return err
	}
	res.AgentResponses[string(routing.AgentVisualization)] = viz.Text

	res.Text = fmt.Sprintf("%s\n\nVisualization:\n%s", combined, viz.Text)
	res.Images = viz.Images
	return nil
}

// fanOut dispatches the structural and catalog calls in parallel and joins
// both. Completed payloads are recorded in res before any error is
// returned, preserving best-effort partial results.
func (e *executor) fanOut(ctx context.Context, query string, res *Result) (payload.Payload, payload.Payload, error) {
	type branch struct {
		p   payload.Payload
		err error
	}
	ids := [2]routing.AgentID{routing.AgentStructural, routing.AgentCatalog}
	var branches [2]branch

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id routing.AgentID) {
			defer wg.Done()
			p, err := e.call(ctx, id, query, false)
			branches[i] = branch{p: p, err: err}
		}(i, id)
	}
	wg.Wait()

	var firstErr error
	for i, id := range ids {
		if branches[i].err != nil {
			if firstErr == nil {
				firstErr = branches[i].err
			}
			continue
		}
		res.AgentResponses[string(id)] = branches[i].p.Text
	}
	if firstErr != nil {
		// Best-effort merge of whatever completed.
		for i, id := range ids {
			if branches[i].err == nil && branches[i].p.Text != "" {
				res.Text = fmt.Sprintf("=== %s ===\n%s", titleFor(id), branches[i].p.Text)
				res.Images = append(res.Images, branches[i].p.Images...)
			}
		}
		return payload.Payload{}, payload.Payload{}, firstErr
	}
	return branches[0].p, branches[1].p, nil
}

func titleFor(id routing.AgentID) string {
	switch id {
	case routing.AgentStructural:
		return "Structural"
	case routing.AgentCatalog:
		return "Catalog"
	case routing.AgentVisualization:
		return "Visualization"
	case routing.AgentSearch:
		return "Search"
	}
	return string(id)
}

// call invokes one agent inside its own span and extracts the response.
// deep extraction is requested for visualization responses only, where the
// generated file may ride an intermediate working-status update.
func (e *executor) call(ctx context.Context, id routing.AgentID, query string, deep bool) (payload.Payload, error) {
	agent, ok := e.agents[id]
	if !ok {
		return payload.Payload{}, fmt.Errorf("no client for agent %q", id)
	}

	ctx, span := e.tracer.Start(ctx, fmt.Sprintf("call_%s_agent", id))
	span.SetAttributes(attribute.String("agent.name", agent.Name()))

	var (
		resp *a2a.Response
		err  error
	)
	if e.conv != nil {
		resp, err = agent.RunContext(ctx, e.conv.ContextID(string(id)), query)
	} else {
		resp, err = agent.Run(ctx, query)
	}
	if err != nil {
		telemetry.End(span, err)
		e.logger.Error("agent call failed", "agent", id, "error", err)
		return payload.Payload{}, err
	}
	if e.conv != nil {
		e.conv.SetContextID(string(id), resp.ContextID())
	}

	p := payload.Extract(resp, deep)
	span.SetAttributes(
		attribute.Int("response.length", len(p.Text)),
		attribute.Int("image.count", len(p.Images)),
	)
	telemetry.End(span, nil)
	e.logger.Debug("agent call completed", "agent", id, "chars", len(p.Text), "images", len(p.Images))
	return p, nil
}
