// Package mcp implements the tool dispatch core: JSON-RPC envelope types,
// the declarative tool registry with argument validation, and the
// dispatcher that routes validated calls to a Backend. Transports (HTTP,
// SSE, stdio lines) are thin adapters around Dispatcher.Handle.
package mcp

import "encoding/json"

// Server identity reported by initialize and GET /mcp.
const (
	ServerName      = "MCPizza"
	ServerVersion   = "1.0.0"
	ProtocolVersion = "1.0.0"
)

// JSON-RPC 2.0 error codes used on the wire.
const (
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// Request is a JSON-RPC 2.0 request. ID is kept raw so responses echo it
// byte for byte; a nil ID marks a notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response. ID has no omitempty: error
// responses to unparseable input must carry an explicit null id.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CallParams is the params object of a tools/call request.
type CallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Content is one block inside a tool result. Only text blocks are produced.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the result object of a tools/call response. Domain and
// validation failures still ship as a ToolResult whose text describes the
// error; the call envelope itself stays successful.
type ToolResult struct {
	Content []Content `json:"content"`
}

// ServerInfo identifies the server in the initialize result.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the response to initialize.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
}

// ListToolsResult is the response to tools/list.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// NewInitializeResult builds the fixed initialize payload.
func NewInitializeResult() InitializeResult {
	return InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ServerInfo:      ServerInfo{Name: ServerName, Version: ServerVersion},
	}
}

// NewResponse wraps a result for the given request id.
func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

// NewErrorResponse wraps a protocol-level error for the given request id.
// A nil id marshals as null, which is what malformed-input replies need.
func NewErrorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: code, Message: message}}
}
