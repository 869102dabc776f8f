package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mcpizza/mcpizza/internal/mcp"
)

// ssePingInterval keeps idle streams alive through proxies.
const ssePingInterval = 15 * time.Second

// streamHub tracks open SSE streams by session id. Each stream owns a
// buffered outbound channel; responses for a session are enqueued in the
// order their requests complete.
type streamHub struct {
	mu      sync.Mutex
	streams map[string]chan []byte
}

func newStreamHub() *streamHub {
	return &streamHub{streams: make(map[string]chan []byte)}
}

func (h *streamHub) add(id string) chan []byte {
	ch := make(chan []byte, 16)
	h.mu.Lock()
	h.streams[id] = ch
	h.mu.Unlock()
	return ch
}

func (h *streamHub) remove(id string) {
	h.mu.Lock()
	delete(h.streams, id)
	h.mu.Unlock()
}

func (h *streamHub) get(id string) (chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.streams[id]
	return ch, ok
}

// handleSSE opens the streamed session: it allocates a fresh session id,
// announces the message endpoint, and then relays responses until the
// client disconnects. The session's order state lives exactly as long as
// the stream.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sessionID := uuid.New().String()
	ch := s.streams.add(sessionID)
	defer func() {
		s.streams.remove(sessionID)
		if s.sessions != nil {
			s.sessions.CloseSession(sessionID)
		}
	}()

	lg := zctx.From(r.Context())
	lg.Info("sse stream opened", zap.String("session_id", sessionID))
	defer lg.Info("sse stream closed", zap.String("session_id", sessionID))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: endpoint\ndata: /sse/message?sessionId=%s\n\n", sessionID)
	flusher.Flush()

	ping := time.NewTicker(ssePingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
		case <-ping.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

// handleSSEMessage accepts one request for an open stream. The response is
// delivered as a message event on the stream; the POST itself only
// acknowledges acceptance.
func (s *Server) handleSSEMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	ch, ok := s.streams.get(sessionID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.push(ch, mcp.NewErrorResponse(nil, mcp.CodeInternalError, fmt.Sprintf("read body: %v", err)))
		w.WriteHeader(http.StatusAccepted)
		return
	}

	var req mcp.Request
	if err := json.Unmarshal(body, &req); err != nil {
		zctx.From(r.Context()).Warn("malformed sse message",
			zap.String("session_id", sessionID), zap.Error(err))
		s.push(ch, mcp.NewErrorResponse(nil, mcp.CodeInternalError, fmt.Sprintf("parse error: %v", err)))
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if resp := s.dispatcher.Handle(r.Context(), sessionID, &req); resp != nil {
		s.push(ch, resp)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) push(ch chan []byte, resp *mcp.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	select {
	case ch <- data:
	default:
		// Slow consumer: drop rather than block the message handler.
	}
}
