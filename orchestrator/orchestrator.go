// Package orchestrator routes natural-language requests to remote A2A
// agents, executes one of the fixed coordination patterns, and merges the
// agents' responses into a single result.
package orchestrator

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sweetpotato0/agentbridge/a2a"
	"github.com/sweetpotato0/agentbridge/config"
	"github.com/sweetpotato0/agentbridge/pkg/logging"
	"github.com/sweetpotato0/agentbridge/pkg/telemetry"
	"github.com/sweetpotato0/agentbridge/routing"
	"github.com/sweetpotato0/agentbridge/runlog"
	"github.com/sweetpotato0/agentbridge/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Orchestrator owns the four remote agent clients for its lifetime and
// exposes Run. It keeps no per-request state, so one instance serves
// concurrent requests and conversations.
type Orchestrator struct {
	agents   map[routing.AgentID]AgentClient
	http     *http.Client
	sessions *session.Manager
	runs     runlog.Store
	tracer   trace.Tracer
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAgentClient overrides the client for one agent. Mainly useful for
// tests and for callers that construct clients themselves.
func WithAgentClient(id routing.AgentID, client AgentClient) Option {
	return func(o *Orchestrator) {
		o.agents[id] = client
	}
}

// WithSessionManager sets the conversation manager used by RunConversation.
func WithSessionManager(m *session.Manager) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.sessions = m
		}
	}
}

// WithRunStore sets the run-history store. Appends are best-effort.
func WithRunStore(s runlog.Store) Option {
	return func(o *Orchestrator) {
		o.runs = s
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an orchestrator from resolved configuration. All four agent
// clients share one HTTP transport whose timeout bounds each remote call.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	o := &Orchestrator{
		agents:   make(map[routing.AgentID]AgentClient),
		http:     httpClient,
		sessions: session.NewManager(nil),
		tracer:   otel.Tracer("agentbridge/orchestrator"),
		logger:   logging.WithComponent("orchestrator"),
	}

	endpoints := map[routing.AgentID]string{
		routing.AgentStructural:    cfg.StructuralAgentURL,
		routing.AgentCatalog:       cfg.CatalogAgentURL,
		routing.AgentVisualization: cfg.VisualizationAgentURL,
		routing.AgentSearch:        cfg.SearchAgentURL,
	}
	for id, url := range endpoints {
		o.agents[id] = a2a.NewClient(string(id), url,
			a2a.WithHTTPClient(httpClient),
			a2a.WithDiscoveryTimeout(cfg.DiscoveryTimeout),
		)
	}

	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Connect resolves every agent's card before the first query, each under
// the bounded discovery wait. A failed handshake aborts the whole startup.
func (o *Orchestrator) Connect(ctx context.Context) error {
	for id, agent := range o.agents {
		client, ok := agent.(*a2a.Client)
		if !ok {
			continue
		}
		if _, err := client.ResolveCard(ctx); err != nil {
			o.logger.Error("agent discovery failed", "agent", id, "error", err)
			return err
		}
	}
	o.logger.Info("orchestrator connected", "agents", len(o.agents))
	return nil
}

// Close tears down the shared transport.
func (o *Orchestrator) Close() {
	o.http.CloseIdleConnections()
}

// Run classifies the query, executes the selected strategy, and returns the
// merged result. The returned Result is never nil; a terminal failure is
// reported in Result.Error alongside whatever partial work completed.
func (o *Orchestrator) Run(ctx context.Context, query string) *Result {
	return o.run(ctx, nil, query)
}

// RunConversation is Run scoped to a caller conversation: each agent call
// reuses the remote context established by earlier turns of the same
// conversation, and newly reported contexts are saved afterwards.
func (o *Orchestrator) RunConversation(ctx context.Context, conversationID, query string) *Result {
	conv, err := o.sessions.GetOrCreate(ctx, conversationID)
	if err != nil {
		o.logger.Warn("conversation load failed, starting fresh", "conversation", conversationID, "error", err)
		conv = session.NewConversation(conversationID)
	}

	res := o.run(ctx, conv, query)

	if err := o.sessions.Save(ctx, conv); err != nil {
		o.logger.Warn("conversation save failed", "conversation", conversationID, "error", err)
	}
	return res
}

func (o *Orchestrator) run(ctx context.Context, conv *session.Conversation, query string) *Result {
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "orchestrator.run")
	span.SetAttributes(attribute.String("query", query))

	decision := routing.Classify(query)
	span.SetAttributes(
		attribute.String("strategy", string(decision.Strategy)),
		attribute.String("workflow", workflowLabel(decision)),
		attribute.String("agents", joinAgents(decision.Agents)),
	)
	o.logger.Info("query classified",
		"strategy", decision.Strategy,
		"workflow", workflowLabel(decision),
		"agents", joinAgents(decision.Agents),
	)

	processed := routing.Preprocess(query, decision)
	if processed != query {
		o.logger.Debug("query preprocessed", "processed", processed)
	}

	res := newResult(query, decision)
	exec := newExecutor(o.agents, conv, o.tracer, o.logger)

	err := exec.execute(ctx, decision, processed, query, res)
	if err != nil {
		res.Error = err.Error()
		span.SetAttributes(attribute.Bool("success", false))
		o.logger.Error("orchestration failed", "strategy", decision.Strategy, "error", err)
	} else {
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("image_count", len(res.Images)),
		)
	}
	res.Duration = time.Since(start)
	telemetry.End(span, err)

	o.record(ctx, res)
	return res
}

// record appends the run to the history store. Failures are logged, never
// surfaced to the caller.
func (o *Orchestrator) record(ctx context.Context, res *Result) {
	if o.runs == nil {
		return
	}
	agents := make([]string, 0, len(res.Decision.Agents))
	for _, id := range res.Decision.Agents {
		agents = append(agents, string(id))
	}
	entry := &runlog.Entry{
		Query:      res.Query,
		Strategy:   string(res.Decision.Strategy),
		Workflow:   res.Decision.Workflow,
		Agents:     agents,
		TextLength: len(res.Text),
		ImageCount: len(res.Images),
		Error:      res.Error,
		Duration:   res.Duration,
	}
	if err := o.runs.Append(ctx, entry); err != nil {
		o.logger.Warn("run history append failed", "error", err)
	}
}

func workflowLabel(d routing.Decision) string {
	if d.Workflow == "" {
		return "direct_a2a"
	}
	return d.Workflow
}

func joinAgents(ids []routing.AgentID) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, string(id))
	}
	return strings.Join(names, ", ")
}
