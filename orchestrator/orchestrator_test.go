package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/sweetpotato0/agentbridge/a2a"
	"github.com/sweetpotato0/agentbridge/config"
	"github.com/sweetpotato0/agentbridge/routing"
	runstore "github.com/sweetpotato0/agentbridge/runlog/store"
	"github.com/sweetpotato0/agentbridge/session"
	sessionstore "github.com/sweetpotato0/agentbridge/session/store"
)

func testConfig() *config.Config {
	return &config.Config{
		StructuralAgentURL:    "http://localhost:10008",
		VisualizationAgentURL: "http://localhost:10009",
		CatalogAgentURL:       "http://localhost:10010",
		SearchAgentURL:        "http://localhost:10011",
		HTTPTimeout:           time.Second,
		DiscoveryTimeout:      time.Second,
	}
}

func newTestOrchestrator(opts ...Option) *Orchestrator {
	base := []Option{
		WithAgentClient(routing.AgentStructural, replyWith("structural", "S")),
		WithAgentClient(routing.AgentCatalog, replyWith("catalog", "C")),
		WithAgentClient(routing.AgentVisualization, replyWith("visualization", "V")),
		WithAgentClient(routing.AgentSearch, replyWith("search", "W")),
	}
	return New(testConfig(), append(base, opts...)...)
}

func TestRunConcurrentEndToEnd(t *testing.T) {
	structural := replyWith("structural", "S")
	catalog := replyWith("catalog", "C")
	o := newTestOrchestrator(
		WithAgentClient(routing.AgentStructural, structural),
		WithAgentClient(routing.AgentCatalog, catalog),
	)

	query := "Get Bridge 1001 structural data and GDOT material standards"
	res := o.Run(context.Background(), query)

	if res.Failed() {
		t.Fatalf("run failed: %s", res.Error)
	}
	if res.Decision.Strategy != routing.StrategyConcurrent {
		t.Fatalf("expected concurrent strategy, got %s", res.Decision.Strategy)
	}
	want := "=== Structural ===\nS\n\n=== Catalog ===\nC"
	if res.Text != want {
		t.Fatalf("merged text mismatch:\nwant %q\ngot  %q", want, res.Text)
	}
	// Both agents see the query exactly as the user typed it.
	if structural.lastCall() != query || catalog.lastCall() != query {
		t.Fatalf("agents must receive the unmodified query")
	}
	if res.Duration <= 0 {
		t.Fatalf("expected positive duration")
	}
}

func TestRunCostingRoutesToSearch(t *testing.T) {
	search := replyWith("search", "steel is up 3%")
	o := newTestOrchestrator(WithAgentClient(routing.AgentSearch, search))

	res := o.Run(context.Background(), "What is the current steel price trend?")
	if res.Failed() {
		t.Fatalf("run failed: %s", res.Error)
	}
	if res.Text != "steel is up 3%" {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if search.callCount() != 1 {
		t.Fatalf("expected exactly one search call, got %d", search.callCount())
	}
}

func TestRunReportsFailureInResult(t *testing.T) {
	structural := &fakeAgent{name: "structural", fn: func(ctx context.Context, contextID, q string) (*a2a.Response, error) {
		return nil, &a2a.CallError{Agent: "structural", Err: context.DeadlineExceeded}
	}}
	o := newTestOrchestrator(WithAgentClient(routing.AgentStructural, structural))

	res := o.Run(context.Background(), "Show span lengths for Bridge 1001")
	if !res.Failed() {
		t.Fatalf("expected failed result")
	}
	if res.Error == "" {
		t.Fatalf("expected error text in result")
	}
}

func TestRunAppendsRunHistory(t *testing.T) {
	runs := runstore.NewInMemoryStore()
	o := newTestOrchestrator(WithRunStore(runs))

	query := "Get Bridge 1001 structural data and GDOT material standards"
	if res := o.Run(context.Background(), query); res.Failed() {
		t.Fatalf("run failed: %s", res.Error)
	}

	entries, err := runs.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 run entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Query != query {
		t.Fatalf("unexpected query %q", e.Query)
	}
	if e.Strategy != "concurrent" || e.Workflow != "data_workflow" {
		t.Fatalf("unexpected strategy/workflow %q/%q", e.Strategy, e.Workflow)
	}
	if e.TextLength == 0 {
		t.Fatalf("expected non-zero text length")
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("entry not stamped: %+v", e)
	}
}

func TestRunConversationPersistsContexts(t *testing.T) {
	structural := &fakeAgent{name: "structural", fn: func(ctx context.Context, contextID, q string) (*a2a.Response, error) {
		return textResponse("remote-ctx-1", "S"), nil
	}}
	store := sessionstore.NewInMemoryStore()
	o := newTestOrchestrator(
		WithAgentClient(routing.AgentStructural, structural),
		WithSessionManager(session.NewManager(store)),
	)

	res := o.RunConversation(context.Background(), "conv-1", "Show span lengths for Bridge 1001")
	if res.Failed() {
		t.Fatalf("run failed: %s", res.Error)
	}

	saved, err := store.Load(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved["structural"] != "remote-ctx-1" {
		t.Fatalf("context id not persisted: %+v", saved)
	}
}

func TestRunConversationReusesContext(t *testing.T) {
	var received []string
	structural := &fakeAgent{name: "structural", fn: func(ctx context.Context, contextID, q string) (*a2a.Response, error) {
		received = append(received, contextID)
		return textResponse("remote-ctx-1", "S"), nil
	}}
	o := newTestOrchestrator(WithAgentClient(routing.AgentStructural, structural))

	o.RunConversation(context.Background(), "conv-1", "Show span lengths for Bridge 1001")
	o.RunConversation(context.Background(), "conv-1", "Now the deck width for Bridge 1001")

	if len(received) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(received))
	}
	if received[0] != "" || received[1] != "remote-ctx-1" {
		t.Fatalf("context threading broken: %v", received)
	}
}

func TestRunIndependentConversationsIsolated(t *testing.T) {
	var received []string
	structural := &fakeAgent{name: "structural", fn: func(ctx context.Context, contextID, q string) (*a2a.Response, error) {
		received = append(received, contextID)
		return textResponse("ctx-"+q, "S"), nil
	}}
	o := newTestOrchestrator(WithAgentClient(routing.AgentStructural, structural))

	o.RunConversation(context.Background(), "conv-a", "a Bridge 1001")
	o.RunConversation(context.Background(), "conv-b", "b Bridge 1001")

	if received[0] != "" || received[1] != "" {
		t.Fatalf("conversations must not share remote contexts: %v", received)
	}
}

func TestWorkflowLabel(t *testing.T) {
	if got := workflowLabel(routing.Decision{}); got != "direct_a2a" {
		t.Fatalf("expected direct_a2a for empty workflow, got %q", got)
	}
	if got := workflowLabel(routing.Decision{Workflow: "chart_workflow"}); got != "chart_workflow" {
		t.Fatalf("unexpected label %q", got)
	}
}
