package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Backend executes a validated tool call. Local runs handlers against
// in-memory session state; Proxy forwards the pair to a remote server.
// Implementations convert their own failures into error-describing tool
// results; the returned error is reserved for programming faults.
type Backend interface {
	CallTool(ctx context.Context, sessionID, name string, args map[string]any) (*ToolResult, error)
}

// Dispatcher routes JSON-RPC requests: initialize and tools/list are
// answered from the registry, tools/call goes through validation and the
// backend. Domain failures never break the envelope; the response to a
// tool call is always a successful result whose content may describe an
// error ("always respond 200" policy).
type Dispatcher struct {
	registry *Registry
	backend  Backend
	lg       *zap.Logger
}

// NewDispatcher wires a registry and a backend.
func NewDispatcher(registry *Registry, backend Backend, lg *zap.Logger) *Dispatcher {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Dispatcher{registry: registry, backend: backend, lg: lg}
}

// Handle processes one request and returns the response to send, or nil
// for notifications, which get no response at all. Any request without an
// id is a notification, whatever its method.
func (d *Dispatcher) Handle(ctx context.Context, sessionID string, req *Request) *Response {
	if req.ID == nil {
		return nil
	}

	switch req.Method {
	case "initialize":
		return NewResponse(req.ID, NewInitializeResult())

	case "tools/list":
		return NewResponse(req.ID, ListToolsResult{Tools: d.registry.Tools()})

	case "tools/call":
		return NewResponse(req.ID, d.callTool(ctx, sessionID, req.Params))

	default:
		return NewErrorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

// callTool validates and executes one tool call. Every failure mode ends
// up as a text content block so the caller always receives a well-formed
// result envelope.
func (d *Dispatcher) callTool(ctx context.Context, sessionID string, params json.RawMessage) *ToolResult {
	var call CallParams
	if err := json.Unmarshal(params, &call); err != nil {
		return ErrorResult(fmt.Sprintf("invalid tools/call params: %v", err))
	}

	tool, ok := d.registry.Lookup(call.Name)
	if !ok {
		d.lg.Warn("unknown tool requested", zap.String("tool", call.Name))
		return ErrorResult(fmt.Sprintf("unknown tool: %s", call.Name))
	}

	args, err := d.registry.ValidateArguments(tool, call.Arguments)
	if err != nil {
		d.lg.Debug("argument validation failed",
			zap.String("tool", call.Name), zap.Error(err))
		return ErrorResult(fmt.Sprintf("invalid arguments for %s: %v", call.Name, err))
	}

	res, err := d.backend.CallTool(ctx, sessionID, call.Name, args)
	if err != nil {
		d.lg.Error("tool call failed",
			zap.String("tool", call.Name), zap.Error(err))
		return ErrorResult(err.Error())
	}
	return res
}

// TextResult wraps v as a single pretty-printed JSON text block.
func TextResult(v any) *ToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ErrorResult(fmt.Sprintf("encode result: %v", err))
	}
	return &ToolResult{Content: []Content{{Type: "text", Text: string(data)}}}
}

// ErrorResult wraps a message as "Error: ..." text content. Used for
// validation, unknown-tool, and transport failures; domain failures encode
// themselves as JSON with success=false instead.
func ErrorResult(message string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: "text", Text: "Error: " + message}}}
}
