package mcp

// toolTable declares every tool: name, description, and argument schema.
// The table is the single source of truth for tools/list and validation.
func toolTable() []Tool {
	return []Tool{
		{
			Name:        "find_dominos_store",
			Description: "Find the nearest Domino's store by address or zip code",
			InputSchema: objectSchema(map[string]Property{
				"address": {Type: "string", Description: "Full address or zip code to search near"},
			}, "address"),
		},
		{
			Name:        "get_store_menu_categories",
			Description: "Get menu categories for the selected store",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "search_menu",
			Description: "Search for menu items by name or category",
			InputSchema: objectSchema(map[string]Property{
				"query": {Type: "string", Description: "Search term (e.g., 'pepperoni pizza', 'wings', 'pasta')"},
			}, "query"),
		},
		{
			Name:        "add_to_order",
			Description: "Add items to pizza order",
			InputSchema: objectSchema(map[string]Property{
				"item_code": {Type: "string", Description: "Product code from menu search"},
				"quantity":  {Type: "integer", Description: "Number of items to add", Default: 1, Minimum: floatPtr(1)},
				"options":   {Description: "Item customization options"},
			}, "item_code"),
		},
		{
			Name:        "view_order",
			Description: "View current order contents and estimated total",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "set_customer_info",
			Description: "Set customer delivery information",
			InputSchema: objectSchema(map[string]Property{
				"first_name": {Type: "string"},
				"last_name":  {Type: "string"},
				"email":      {Type: "string"},
				"phone":      {Type: "string"},
				"address": {
					Type: "object",
					Properties: map[string]Property{
						"street": {Type: "string"},
						"city":   {Type: "string"},
						"region": {Type: "string"},
						"zip":    {Type: "string"},
					},
					Required: []string{"street", "city", "region", "zip"},
				},
			}, "first_name", "last_name", "email", "phone", "address"),
		},
		{
			Name:        "calculate_order_total",
			Description: "Calculate order total with tax and delivery fee",
			InputSchema: objectSchema(nil),
		},
		{
			Name:        "prepare_order",
			Description: "Prepare order for review (no actual order is placed)",
			InputSchema: objectSchema(nil),
		},
	}
}

func objectSchema(props map[string]Property, required ...string) Schema {
	if props == nil {
		props = map[string]Property{}
	}
	if required == nil {
		required = []string{}
	}
	return Schema{Type: "object", Properties: props, Required: required}
}

func floatPtr(f float64) *float64 { return &f }
