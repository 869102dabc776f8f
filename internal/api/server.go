// Package api is the HTTP transport adapter: it turns request bodies into
// dispatcher calls and serializes responses back. Direct calls go through
// POST /mcp; GET /sse plus POST /sse/message carry the streamed session
// variant. Everything else is a 404.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/mcpizza/mcpizza/internal/mcp"
)

// maxBodyBytes bounds one direct or SSE message body.
const maxBodyBytes = 1 << 20

// sessionHeader optionally pins a direct /mcp call to a session. Without
// it, direct calls share the default session, mirroring the original's
// single global order.
const sessionHeader = "Mcp-Session-Id"

// SessionCloser is implemented by backends with per-session state to tear
// down. The proxy backend keeps no sessions and plugs in as nil.
type SessionCloser interface {
	CloseSession(id string)
}

// Server serves the MCP HTTP surface.
type Server struct {
	dispatcher *mcp.Dispatcher
	sessions   SessionCloser
	streams    *streamHub
}

// NewServer creates the HTTP transport over a dispatcher. sessions may be
// nil when the backend keeps no per-session state.
func NewServer(dispatcher *mcp.Dispatcher, sessions SessionCloser) *Server {
	return &Server{
		dispatcher: dispatcher,
		sessions:   sessions,
		streams:    newStreamHub(),
	}
}

// Routes builds the request mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", s.handleMCP)
	mux.HandleFunc("/sse", s.handleSSE)
	mux.HandleFunc("/sse/message", s.handleSSEMessage)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	return mux
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"jsonrpc": "2.0",
			"result":  mcp.NewInitializeResult(),
		})

	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusOK, mcp.NewErrorResponse(nil, mcp.CodeInternalError, fmt.Sprintf("read body: %v", err)))
			return
		}

		var req mcp.Request
		if err := json.Unmarshal(body, &req); err != nil {
			zctx.From(r.Context()).Warn("malformed /mcp body", zap.Error(err))
			writeJSON(w, http.StatusOK, mcp.NewErrorResponse(nil, mcp.CodeInternalError, fmt.Sprintf("parse error: %v", err)))
			return
		}

		sessionID := r.Header.Get(sessionHeader)
		if sessionID == "" {
			sessionID = mcp.DefaultSession
		}

		resp := s.dispatcher.Handle(r.Context(), sessionID, &req)
		if resp == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		writeJSON(w, http.StatusOK, resp)

	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
