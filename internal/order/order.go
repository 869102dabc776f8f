// Package order implements the session-scoped order state and the tool
// handler logic that mutates and queries it. Every operation returns a
// result value; domain failures are reported inside the result with
// success=false rather than as Go errors, so a failed call never aborts
// the protocol exchange carrying it.
package order

import "github.com/shopspring/decimal"

// Money constants for the total breakdown.
var (
	taxRate     = decimal.RequireFromString("0.08")
	deliveryFee = decimal.RequireFromString("2.99")
)

// LineItem is one ordered product. Name and Price are captured from the
// catalog at add time and never re-read afterwards.
type LineItem struct {
	Code     string
	Name     string
	Quantity int
	Price    decimal.Decimal
	Options  map[string]any
}

// Address is the structured delivery address inside CustomerInfo.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Region string `json:"region"`
	Zip    string `json:"zip"`
}

// CustomerInfo is the full customer record. Partial updates are not
// supported; setting customer info always replaces the whole record.
type CustomerInfo struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
}

// --- Result payloads ---
//
// These marshal into the JSON objects embedded in tool-call text content.
// Field names stay snake_case to match the wire shape clients parse.

// StoreView is the store object exposed in results.
type StoreView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ItemView is a menu item in search results.
type ItemView struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// LineView is a line item in order views and previews.
type LineView struct {
	ItemCode string         `json:"item_code"`
	Name     string         `json:"name"`
	Quantity int            `json:"quantity"`
	Price    float64        `json:"price"`
	Options  map[string]any `json:"options,omitempty"`
}

// SelectStoreResult is returned by find_dominos_store.
type SelectStoreResult struct {
	Success bool       `json:"success"`
	Store   *StoreView `json:"store,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// CategoriesResult is returned by get_store_menu_categories.
type CategoriesResult struct {
	Success    bool     `json:"success"`
	Categories []string `json:"categories,omitempty"`
	Store      string   `json:"store,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// SearchResult is returned by search_menu. Items is always non-nil on
// success so an empty match list marshals as []; on failure the nil slice
// is omitted entirely.
type SearchResult struct {
	Success bool       `json:"success"`
	Query   string     `json:"query,omitempty"`
	Items   []ItemView `json:"items,omitzero"`
	Count   *int       `json:"count,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// AddResult is returned by add_to_order.
type AddResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	OrderItems int    `json:"order_items,omitempty"`
	Error      string `json:"error,omitempty"`
}

// OrderView is the order snapshot inside ViewResult.
type OrderView struct {
	Items    []LineView    `json:"items"`
	Customer *CustomerInfo `json:"customer,omitempty"`
	Total    *float64      `json:"total,omitempty"`
}

// ViewResult is returned by view_order. EstimatedTotal is recomputed from
// the line items on every call; it is independent of the stored breakdown
// total and the two may disagree by a cent due to rounding order.
type ViewResult struct {
	Success        bool      `json:"success"`
	Order          OrderView `json:"order"`
	TotalItems     int       `json:"total_items"`
	EstimatedTotal float64   `json:"estimated_total"`
}

// CustomerResult is returned by set_customer_info.
type CustomerResult struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message,omitempty"`
	Customer *CustomerInfo `json:"customer,omitempty"`
}

// Breakdown is the priced order summary from calculate_order_total.
type Breakdown struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

// TotalResult is returned by calculate_order_total.
type TotalResult struct {
	Success   bool       `json:"success"`
	Breakdown *Breakdown `json:"breakdown,omitempty"`
}

// Preview is the dry-run order projection from prepare_order.
type Preview struct {
	Store    *StoreView    `json:"store"`
	Customer *CustomerInfo `json:"customer"`
	Items    []LineView    `json:"items"`
	Total    float64       `json:"total"`
}

// PrepareResult is returned by prepare_order.
type PrepareResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Preview *Preview `json:"preview,omitempty"`
	Warning string   `json:"warning,omitempty"`
	Error   string   `json:"error,omitempty"`
}
