package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// maxProxyResponseBytes bounds how much of a backend reply is read.
const maxProxyResponseBytes = 4 << 20

// Proxy forwards tool calls to a remote MCP backend as JSON-RPC 2.0 over
// HTTP POST. Every transport failure (non-OK status, unreadable or
// unparseable body, an error field in the reply, a timeout) is converted
// into an error-describing tool result so the caller always receives a
// well-formed envelope and the session survives the failed call.
type Proxy struct {
	endpoint string
	client   *http.Client
	lg       *zap.Logger
	seq      atomic.Int64
}

// NewProxy creates a Proxy targeting the given endpoint URL. A zero
// timeout disables the client timeout; outbound calls then block until
// the remote replies or the request context is cancelled.
func NewProxy(endpoint string, timeout time.Duration, lg *zap.Logger) *Proxy {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Proxy{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		lg:       lg,
	}
}

// CallTool forwards the (name, arguments) pair unchanged and awaits
// exactly one reply.
func (p *Proxy) CallTool(ctx context.Context, _, name string, args map[string]any) (*ToolResult, error) {
	id := p.seq.Add(1)
	payload, err := json.Marshal(Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(strconv.FormatInt(id, 10)),
		Method:  "tools/call",
		Params:  mustMarshal(CallParams{Name: name, Arguments: args}),
	})
	if err != nil {
		return ErrorResult(fmt.Sprintf("encode request: %v", err)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return ErrorResult(fmt.Sprintf("build request: %v", err)), nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.lg.Warn("proxy request failed", zap.String("tool", name), zap.Error(err))
		return ErrorResult(err.Error()), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.lg.Warn("proxy backend returned non-OK status",
			zap.String("tool", name), zap.Int("status", resp.StatusCode))
		return ErrorResult(fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)), nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyResponseBytes))
	if err != nil {
		return ErrorResult(fmt.Sprintf("read response: %v", err)), nil
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *Error          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ErrorResult(fmt.Sprintf("unparseable backend response: %v", err)), nil
	}
	if envelope.Error != nil {
		return ErrorResult(envelope.Error.Message), nil
	}

	var result ToolResult
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return ErrorResult(fmt.Sprintf("unexpected backend result shape: %v", err)), nil
	}
	return &result, nil
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
