package api

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpizza/mcpizza/internal/catalog"
	"github.com/mcpizza/mcpizza/internal/mcp"
)

func newTestServer(t *testing.T) (*httptest.Server, *mcp.Local) {
	t.Helper()
	local := mcp.NewLocal(catalog.New(), nil)
	dispatcher := mcp.NewDispatcher(mcp.NewRegistry(), local, nil)
	srv := httptest.NewServer(NewServer(dispatcher, local).Routes())
	t.Cleanup(srv.Close)
	return srv, local
}

func postMCP(t *testing.T, url, body string, headers map[string]string) (*http.Response, mcp.Response) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/mcp", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope mcp.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestGetMCPServerInfo(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/mcp")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		JSONRPC string `json:"jsonrpc"`
		Result  struct {
			ServerInfo struct {
				Name string `json:"name"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "2.0", payload.JSONRPC)
	assert.Equal(t, "MCPizza", payload.Result.ServerInfo.Name)
}

func TestPostMCPToolsList(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, envelope := postMCP(t, srv.URL, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, envelope.Error)

	data, err := json.Marshal(envelope.Result)
	require.NoError(t, err)
	var list mcp.ListToolsResult
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list.Tools, 8)
	assert.Equal(t, "object", list.Tools[0].InputSchema.Type)
}

func TestPostMCPToolCallAlways200(t *testing.T) {
	srv, _ := newTestServer(t)

	// A domain failure (no store selected) still travels as a 200 result.
	resp, envelope := postMCP(t, srv.URL,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"search_menu","arguments":{"query":"pizza"}}}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, envelope.Error)

	data, err := json.Marshal(envelope.Result)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Please select a store first")
}

func TestPostMCPMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/mcp", "application/json", strings.NewReader("{{{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":null`)
	assert.Contains(t, string(raw), `-32603`)
}

func TestPostMCPUnknownMethod(t *testing.T) {
	srv, _ := newTestServer(t)

	_, envelope := postMCP(t, srv.URL, `{"jsonrpc":"2.0","id":3,"method":"resources/list"}`, nil)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, mcp.CodeMethodNotFound, envelope.Error.Code)
}

func TestSessionHeaderIsolatesOrders(t *testing.T) {
	srv, _ := newTestServer(t)

	add := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"add_to_order","arguments":{"item_code":"WINGS_BBQ"}}}`
	view := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"view_order","arguments":{}}}`

	postMCP(t, srv.URL, add, map[string]string{"Mcp-Session-Id": "a"})

	_, envelope := postMCP(t, srv.URL, view, map[string]string{"Mcp-Session-Id": "b"})
	data, _ := json.Marshal(envelope.Result)
	assert.Contains(t, string(data), `\"total_items\": 0`)

	_, envelope = postMCP(t, srv.URL, view, map[string]string{"Mcp-Session-Id": "a"})
	data, _ = json.Marshal(envelope.Result)
	assert.Contains(t, string(data), `\"total_items\": 1`)
}

func TestUnknownPath404(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/", "/api", "/mcp/extra", "/favicon.ico"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestSSEHandshakeAndMessage(t *testing.T) {
	srv, local := newTestServer(t)

	resp, err := http.Get(srv.URL + "/sse")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	event, data := readSSEEvent(t, reader)
	require.Equal(t, "endpoint", event)
	require.True(t, strings.HasPrefix(data, "/sse/message?sessionId="), data)

	// Post a call to the announced endpoint; the response arrives on the stream.
	body := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"add_to_order","arguments":{"item_code":"M_PEPPERONI","quantity":2}}}`
	post, err := http.Post(srv.URL+data, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusAccepted, post.StatusCode)

	event, data = readSSEEvent(t, reader)
	assert.Equal(t, "message", event)
	assert.Contains(t, data, "Added 2x Medium Pepperoni Pizza to order")

	// The stream owns one session.
	assert.Equal(t, 1, local.SessionCount())
}

func TestSSEMessageUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/sse/message?sessionId=nope", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSSEDisconnectTearsDownSession(t *testing.T) {
	srv, local := newTestServer(t)

	resp, err := http.Get(srv.URL + "/sse")
	require.NoError(t, err)
	reader := bufio.NewReader(resp.Body)
	_, endpoint := readSSEEvent(t, reader)

	post, err := http.Post(srv.URL+endpoint, "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"view_order","arguments":{}}}`))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, 1, local.SessionCount())

	resp.Body.Close()

	require.Eventually(t, func() bool {
		return local.SessionCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

// readSSEEvent reads one "event:"/"data:" pair, skipping comments.
func readSSEEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
			return event, data
		}
	}
	t.Fatal("timed out waiting for SSE event")
	return "", ""
}
