package mcp

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/mcpizza/mcpizza/internal/catalog"
	"github.com/mcpizza/mcpizza/internal/order"
)

// DefaultSession is the session id used by transports without their own
// session identity (plain POST /mcp without a session header, stdio).
const DefaultSession = "default"

// Local executes tool calls against in-memory per-session order state.
// Each session owns an independent order manager created on first use and
// discarded by CloseSession; nothing is shared across sessions.
type Local struct {
	catalog *catalog.Catalog
	lg      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*order.Manager
}

// NewLocal creates a Local backend over the given catalog.
func NewLocal(c *catalog.Catalog, lg *zap.Logger) *Local {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Local{
		catalog:  c,
		lg:       lg,
		sessions: make(map[string]*order.Manager),
	}
}

// CallTool dispatches one validated call to the session's order manager.
func (l *Local) CallTool(_ context.Context, sessionID, name string, args map[string]any) (*ToolResult, error) {
	m := l.session(sessionID)

	switch name {
	case "find_dominos_store":
		return TextResult(m.SelectStore(args["address"].(string))), nil

	case "get_store_menu_categories":
		return TextResult(m.MenuCategories()), nil

	case "search_menu":
		return TextResult(m.SearchMenu(args["query"].(string))), nil

	case "add_to_order":
		var options map[string]any
		if o, ok := args["options"].(map[string]any); ok {
			options = o
		}
		return TextResult(m.AddItem(args["item_code"].(string), args["quantity"].(int), options)), nil

	case "view_order":
		return TextResult(m.View()), nil

	case "set_customer_info":
		info, err := customerFromArgs(args)
		if err != nil {
			return nil, err
		}
		return TextResult(m.SetCustomer(info)), nil

	case "calculate_order_total":
		return TextResult(m.CalculateTotal()), nil

	case "prepare_order":
		return TextResult(m.PrepareOrder()), nil

	default:
		// The dispatcher validates tool names against the registry first.
		return nil, errors.Errorf("unhandled tool %q", name)
	}
}

// CloseSession discards a session's order state. Called when an SSE stream
// disconnects; the order is never persisted.
func (l *Local) CloseSession(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sessions[id]; ok {
		delete(l.sessions, id)
		l.lg.Debug("session closed", zap.String("session_id", id))
	}
}

// SessionCount reports the number of live sessions.
func (l *Local) SessionCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

func (l *Local) session(id string) *order.Manager {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.sessions[id]
	if !ok {
		m = order.NewManager(l.catalog)
		l.sessions[id] = m
		l.lg.Debug("session created", zap.String("session_id", id))
	}
	return m
}

// customerFromArgs decodes the validated set_customer_info arguments into
// the typed customer record via a JSON round trip.
func customerFromArgs(args map[string]any) (order.CustomerInfo, error) {
	var info order.CustomerInfo
	data, err := json.Marshal(args)
	if err != nil {
		return info, errors.Wrap(err, "encode customer args")
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, errors.Wrap(err, "decode customer info")
	}
	return info, nil
}
