package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newAgentServer(t *testing.T, card *AgentCard, result any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(DefaultCardPath, func(w http.ResponseWriter, r *http.Request) {
		if card == nil {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(card)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode rpc request: %v", err)
		}
		if req.Method != "message/send" {
			t.Errorf("unexpected method %q", req.Method)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveCard(t *testing.T) {
	card := &AgentCard{Name: "Structural Agent", Version: "1.0.0"}
	srv := newAgentServer(t, card, nil)

	c := NewClient("structural", srv.URL)
	got, err := c.ResolveCard(context.Background())
	if err != nil {
		t.Fatalf("resolve card: %v", err)
	}
	if got.Name != "Structural Agent" {
		t.Fatalf("unexpected card name %q", got.Name)
	}
	if c.Card() == nil || c.Card().Name != "Structural Agent" {
		t.Fatalf("card not cached on client")
	}
}

func TestResolveCardNotFound(t *testing.T) {
	srv := newAgentServer(t, nil, nil)

	c := NewClient("structural", srv.URL)
	_, err := c.ResolveCard(context.Background())
	if err == nil {
		t.Fatalf("expected discovery error")
	}
	var derr *DiscoveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DiscoveryError, got %T", err)
	}
	if derr.Agent != "structural" {
		t.Fatalf("unexpected agent in error: %q", derr.Agent)
	}
}

func TestResolveCardUnreachable(t *testing.T) {
	c := NewClient("structural", "http://127.0.0.1:1")
	_, err := c.ResolveCard(context.Background())
	if err == nil {
		t.Fatalf("expected discovery error for unreachable agent")
	}
	var derr *DiscoveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DiscoveryError, got %T", err)
	}
}

func TestRunDecodesTask(t *testing.T) {
	result := map[string]any{
		"kind":      "task",
		"id":        "task-1",
		"contextId": "ctx-42",
		"status": map[string]any{
			"state": "completed",
			"message": map[string]any{
				"role":  "agent",
				"parts": []map[string]any{{"kind": "text", "text": "span lengths: 120ft"}},
			},
		},
	}
	srv := newAgentServer(t, nil, result)

	c := NewClient("structural", srv.URL)
	resp, err := c.Run(context.Background(), "Show span lengths for Bridge 1001")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(resp.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(resp.Tasks))
	}
	task := resp.Tasks[0]
	if task.Status == nil || task.Status.State != "completed" {
		t.Fatalf("unexpected status %+v", task.Status)
	}
	if task.Status.Message.Parts[0].Text != "span lengths: 120ft" {
		t.Fatalf("unexpected text %q", task.Status.Message.Parts[0].Text)
	}
	if resp.ContextID() != "ctx-42" {
		t.Fatalf("expected context id ctx-42, got %q", resp.ContextID())
	}
}

func TestRunDecodesBareMessage(t *testing.T) {
	result := map[string]any{
		"kind":      "message",
		"messageId": "m-1",
		"role":      "agent",
		"contextId": "ctx-7",
		"parts":     []map[string]any{{"kind": "text", "text": "hello"}},
	}
	srv := newAgentServer(t, nil, result)

	c := NewClient("catalog", srv.URL)
	resp, err := c.Run(context.Background(), "hi")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(resp.Tasks) != 1 {
		t.Fatalf("expected synthetic task, got %d tasks", len(resp.Tasks))
	}
	task := resp.Tasks[0]
	if task.Status == nil || task.Status.State != "completed" {
		t.Fatalf("synthetic task must be completed, got %+v", task.Status)
	}
	if task.Status.Message.Parts[0].Text != "hello" {
		t.Fatalf("unexpected text %q", task.Status.Message.Parts[0].Text)
	}
	if resp.ContextID() != "ctx-7" {
		t.Fatalf("expected context id ctx-7, got %q", resp.ContextID())
	}
}

func TestRunContextSendsContextID(t *testing.T) {
	var gotContextID string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Params struct {
				Message Message `json:"message"`
			} `json:"params"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotContextID = req.Params.Message.ContextID
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      "1",
			"result":  map[string]any{"kind": "task", "id": "t", "contextId": "ctx-9"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient("structural", srv.URL)
	if _, err := c.RunContext(context.Background(), "ctx-9", "follow up"); err != nil {
		t.Fatalf("run context: %v", err)
	}
	if gotContextID != "ctx-9" {
		t.Fatalf("expected context id ctx-9 on the wire, got %q", gotContextID)
	}
}

func TestRunRPCError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      "1",
			"error":   map[string]any{"code": -32000, "message": "agent busy"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient("search", srv.URL)
	_, err := c.Run(context.Background(), "cost of steel")
	if err == nil {
		t.Fatalf("expected rpc error")
	}
	var cerr *CallError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CallError, got %T", err)
	}
	if cerr.Agent != "search" {
		t.Fatalf("unexpected agent %q", cerr.Agent)
	}
}
