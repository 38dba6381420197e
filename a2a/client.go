package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sweetpotato0/agentbridge/pkg/logging"
)

const (
	// DefaultCardPath is the well-known location of an agent's card.
	DefaultCardPath = "/.well-known/agent.json"

	// DefaultDiscoveryTimeout bounds the card handshake independently of the
	// shared transport timeout.
	DefaultDiscoveryTimeout = 10 * time.Second
)

// Client talks to one remote A2A agent over JSON-RPC HTTP. It is stateless
// between calls apart from the underlying shared transport, so a single
// Client is safe for concurrent use.
type Client struct {
	name      string
	baseURL   string
	cardPath  string
	discovery time.Duration
	http      *http.Client
	card      *AgentCard
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the shared *http.Client used for all requests. The
// transport-level timeout configured on it bounds each message/send call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCardPath overrides the agent-card path relative to the base URL.
func WithCardPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.cardPath = path
		}
	}
}

// WithDiscoveryTimeout overrides the bound on the agent-card handshake.
func WithDiscoveryTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.discovery = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the agent hosted at baseURL. The name is
// the local agent identifier used in results and error reports.
func NewClient(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:      name,
		baseURL:   baseURL,
		cardPath:  DefaultCardPath,
		discovery: DefaultDiscoveryTimeout,
		http:      &http.Client{Timeout: 60 * time.Second},
		logger:    logging.WithComponent("a2a"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the local agent identifier.
func (c *Client) Name() string { return c.name }

// URL returns the agent's base URL.
func (c *Client) URL() string { return c.baseURL }

// Card returns the most recently resolved agent card, or nil before
// ResolveCard succeeds.
func (c *Client) Card() *AgentCard { return c.card }

// ResolveCard fetches and caches the agent's card. The handshake is bounded
// by the configured discovery timeout unless the caller context expires
// sooner. Failure is reported as *DiscoveryError.
func (c *Client) ResolveCard(ctx context.Context) (*AgentCard, error) {
	ctx, cancel := context.WithTimeout(ctx, c.discovery)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.cardPath, nil)
	if err != nil {
		return nil, &DiscoveryError{Agent: c.name, URL: c.baseURL, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &DiscoveryError{Agent: c.name, URL: c.baseURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &DiscoveryError{Agent: c.name, URL: c.baseURL, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}

	var card AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, &DiscoveryError{Agent: c.name, URL: c.baseURL, Err: fmt.Errorf("decode agent card: %w", err)}
	}

	c.card = &card
	c.logger.Info("agent connected", "agent", c.name, "remote_name", card.Name, "url", c.baseURL)
	return &card, nil
}

// Run sends text as a user message and returns the agent's response. The
// call inherits the shared transport timeout; failure is reported as
// *CallError.
func (c *Client) Run(ctx context.Context, text string) (*Response, error) {
	return c.RunContext(ctx, "", text)
}

// RunContext is Run with an explicit remote conversation context. An empty
// contextID starts a fresh context on the agent side.
func (c *Client) RunContext(ctx context.Context, contextID, text string) (*Response, error) {
	msg := &Message{
		Kind:      "message",
		MessageID: uuid.NewString(),
		Role:      "user",
		ContextID: contextID,
		Parts:     []*Part{{Kind: "text", Text: text}},
	}

	raw, err := c.call(ctx, "message/send", map[string]any{"message": msg})
	if err != nil {
		return nil, &CallError{Agent: c.name, Err: err}
	}
	return decodeResponse(raw)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("a2a error %d: %s", e.Code, e.Message)
}

func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

// decodeResponse interprets a message/send result. Agents reply either with
// a task envelope or a bare message; the latter is wrapped in a synthetic
// task so downstream extraction sees one shape.
func decodeResponse(raw json.RawMessage) (*Response, error) {
	if len(raw) == 0 {
		return &Response{}, nil
	}

	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	switch probe.Kind {
	case "message":
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("decode message result: %w", err)
		}
		return &Response{Tasks: []*Task{{
			ContextID: msg.ContextID,
			Status:    &TaskStatus{State: "completed", Message: &msg},
		}}}, nil
	default:
		var task Task
		if err := json.Unmarshal(raw, &task); err != nil {
			return nil, fmt.Errorf("decode task result: %w", err)
		}
		return &Response{Tasks: []*Task{&task}}, nil
	}
}
