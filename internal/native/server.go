// Package native exposes the pizza ordering tools through the official
// MCP Go SDK over stdio. It serves a single client, so one order manager
// backs the whole connection.
package native

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcpizza/mcpizza/internal/catalog"
	"github.com/mcpizza/mcpizza/internal/mcp"
	"github.com/mcpizza/mcpizza/internal/order"
)

// Server wraps the MCP SDK server around an order manager.
type Server struct {
	MCPServer *sdkmcp.Server
	manager   *order.Manager
}

// NewServer creates an MCP server with the pizza ordering tools registered.
func NewServer(c *catalog.Catalog) *Server {
	s := &Server{manager: order.NewManager(c)}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: mcp.ServerName, Version: mcp.ServerVersion},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves the stdio transport until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "find_dominos_store",
		Description: "Find the nearest Domino's store by address or zip code",
	}, s.handleFindStore)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_store_menu_categories",
		Description: "Get menu categories for the selected store",
	}, s.handleMenuCategories)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "search_menu",
		Description: "Search for menu items by name or category",
	}, s.handleSearchMenu)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "add_to_order",
		Description: "Add items to pizza order",
	}, s.handleAddToOrder)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "view_order",
		Description: "View current order contents and estimated total",
	}, s.handleViewOrder)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "set_customer_info",
		Description: "Set customer delivery information",
	}, s.handleSetCustomerInfo)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "calculate_order_total",
		Description: "Calculate order total with tax and delivery fee",
	}, s.handleCalculateTotal)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "prepare_order",
		Description: "Prepare order for review (no actual order is placed)",
	}, s.handlePrepareOrder)
}

// --- Tool input types ---

type findStoreInput struct {
	Address string `json:"address" jsonschema:"full address or zip code to search near"`
}

type emptyInput struct{}

type searchMenuInput struct {
	Query string `json:"query" jsonschema:"search term (e.g. 'pepperoni pizza', 'wings', 'pasta')"`
}

type addToOrderInput struct {
	ItemCode string         `json:"item_code" jsonschema:"product code from menu search"`
	Quantity int            `json:"quantity,omitempty" jsonschema:"number of items to add (default 1)"`
	Options  map[string]any `json:"options,omitempty" jsonschema:"item customization options"`
}

type setCustomerInfoInput struct {
	FirstName string               `json:"first_name"`
	LastName  string               `json:"last_name"`
	Email     string               `json:"email"`
	Phone     string               `json:"phone"`
	Address   customerAddressInput `json:"address"`
}

type customerAddressInput struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Region string `json:"region"`
	Zip    string `json:"zip"`
}

// --- Tool handlers ---

func (s *Server) handleFindStore(_ context.Context, _ *sdkmcp.CallToolRequest, input findStoreInput) (*sdkmcp.CallToolResult, order.SelectStoreResult, error) {
	return nil, s.manager.SelectStore(input.Address), nil
}

func (s *Server) handleMenuCategories(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, order.CategoriesResult, error) {
	return nil, s.manager.MenuCategories(), nil
}

func (s *Server) handleSearchMenu(_ context.Context, _ *sdkmcp.CallToolRequest, input searchMenuInput) (*sdkmcp.CallToolResult, order.SearchResult, error) {
	return nil, s.manager.SearchMenu(input.Query), nil
}

func (s *Server) handleAddToOrder(_ context.Context, _ *sdkmcp.CallToolRequest, input addToOrderInput) (*sdkmcp.CallToolResult, order.AddResult, error) {
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return nil, s.manager.AddItem(input.ItemCode, quantity, input.Options), nil
}

func (s *Server) handleViewOrder(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, order.ViewResult, error) {
	return nil, s.manager.View(), nil
}

func (s *Server) handleSetCustomerInfo(_ context.Context, _ *sdkmcp.CallToolRequest, input setCustomerInfoInput) (*sdkmcp.CallToolResult, order.CustomerResult, error) {
	info := order.CustomerInfo{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Address: order.Address{
			Street: input.Address.Street,
			City:   input.Address.City,
			Region: input.Address.Region,
			Zip:    input.Address.Zip,
		},
	}
	return nil, s.manager.SetCustomer(info), nil
}

func (s *Server) handleCalculateTotal(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, order.TotalResult, error) {
	return nil, s.manager.CalculateTotal(), nil
}

func (s *Server) handlePrepareOrder(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, order.PrepareResult, error) {
	return nil, s.manager.PrepareOrder(), nil
}
