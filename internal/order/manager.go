package order

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mcpizza/mcpizza/internal/catalog"
)

// Failure reasons surfaced inside result payloads.
const (
	reasonNoStore  = "Please select a store first using find_dominos_store"
	reasonNoItems  = "No items in order"
	reasonNoMatch  = "No store found for the given address"
	previewMessage = "Order prepared for preview (safe mode - no actual order placed)"
	previewWarning = "Real order placement is disabled for safety"
)

// Manager owns one order for the lifetime of a session: the selected store,
// the customer record, the line items, and the last computed total. A mutex
// serializes tool calls so each call runs to completion against a consistent
// snapshot; sessions never share a Manager.
type Manager struct {
	catalog *catalog.Catalog

	mu       sync.Mutex
	store    *catalog.Store
	customer *CustomerInfo
	items    []LineItem
	total    decimal.Decimal
	hasTotal bool
}

// NewManager creates an empty order bound to the given catalog.
func NewManager(c *catalog.Catalog) *Manager {
	return &Manager{catalog: c}
}

// SelectStore resolves the query against the catalog and records the match
// as the selected store, replacing any previous selection.
func (m *Manager) SelectStore(query string) SelectStoreResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.catalog.FindStore(query)
	if !ok {
		return SelectStoreResult{Error: reasonNoMatch}
	}
	m.store = &s
	return SelectStoreResult{
		Success: true,
		Store:   storeView(&s),
		Message: fmt.Sprintf("Found store: %s", s.Name),
	}
}

// MenuCategories returns the fixed category list for the selected store.
func (m *Manager) MenuCategories() CategoriesResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store == nil {
		return CategoriesResult{Error: reasonNoStore}
	}
	return CategoriesResult{
		Success:    true,
		Categories: catalog.Categories(),
		Store:      m.store.Name,
	}
}

// SearchMenu returns catalog items matching the query. A store must be
// selected first; searching with no selection is a reported failure, not a
// silent default.
func (m *Manager) SearchMenu(query string) SearchResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store == nil {
		return SearchResult{Error: reasonNoStore}
	}

	matches := m.catalog.Search(query)
	items := make([]ItemView, len(matches))
	for i, it := range matches {
		items[i] = ItemView{
			Code:     it.Code,
			Name:     it.Name,
			Price:    it.Price.InexactFloat64(),
			Category: it.Category,
		}
	}
	count := len(items)
	return SearchResult{Success: true, Query: query, Items: items, Count: &count}
}

// AddItem appends a line item, capturing the catalog name and price at this
// moment. An unknown code leaves the order untouched.
func (m *Manager) AddItem(code string, quantity int, options map[string]any) AddResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.catalog.ItemByCode(code)
	if !ok {
		return AddResult{Error: fmt.Sprintf("Item with code %s not found", code)}
	}

	m.items = append(m.items, LineItem{
		Code:     code,
		Name:     it.Name,
		Quantity: quantity,
		Price:    it.Price,
		Options:  options,
	})
	return AddResult{
		Success:    true,
		Message:    fmt.Sprintf("Added %dx %s to order", quantity, it.Name),
		OrderItems: len(m.items),
	}
}

// View returns the current order snapshot. The estimated total is the raw
// sum of price*quantity, recomputed fresh on every call; it deliberately
// bypasses the stored breakdown total.
func (m *Manager) View() ViewResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	ov := OrderView{Items: lineViews(m.items), Customer: m.customer}
	if m.hasTotal {
		t := m.total.InexactFloat64()
		ov.Total = &t
	}
	return ViewResult{
		Success:        true,
		Order:          ov,
		TotalItems:     len(m.items),
		EstimatedTotal: m.rawSubtotal().InexactFloat64(),
	}
}

// SetCustomer unconditionally replaces the customer record.
func (m *Manager) SetCustomer(info CustomerInfo) CustomerResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.customer = &info
	return CustomerResult{
		Success:  true,
		Message:  "Customer information saved",
		Customer: &info,
	}
}

// CalculateTotal prices the order and stores the resulting total on the
// order for later use by PrepareOrder. Subtotal and tax are each rounded to
// cents before summing; the grand total gets no further rounding. Repeated
// calls with an unchanged item list return identical breakdowns.
func (m *Manager) CalculateTotal() TotalResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calculateTotalLocked()
}

func (m *Manager) calculateTotalLocked() TotalResult {
	raw := m.rawSubtotal()
	subtotal := raw.Round(2)
	tax := raw.Mul(taxRate).Round(2)
	total := subtotal.Add(tax).Add(deliveryFee)

	m.total = total
	m.hasTotal = true

	return TotalResult{
		Success: true,
		Breakdown: &Breakdown{
			Subtotal:    subtotal.InexactFloat64(),
			Tax:         tax.InexactFloat64(),
			DeliveryFee: deliveryFee.InexactFloat64(),
			Total:       total.InexactFloat64(),
		},
	}
}

// PrepareOrder builds a dry-run preview of the current order. It never
// contacts an ordering backend; the only side effect is computing the total
// when no breakdown has been calculated yet.
func (m *Manager) PrepareOrder() PrepareResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.items) == 0 {
		return PrepareResult{Error: reasonNoItems}
	}
	if !m.hasTotal {
		m.calculateTotalLocked()
	}

	return PrepareResult{
		Success: true,
		Message: previewMessage,
		Preview: &Preview{
			Store:    storeView(m.store),
			Customer: m.customer,
			Items:    lineViews(m.items),
			Total:    m.total.InexactFloat64(),
		},
		Warning: previewWarning,
	}
}

// ItemCount reports the number of line items. Used by tests and logging.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Manager) rawSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range m.items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

func storeView(s *catalog.Store) *StoreView {
	if s == nil {
		return nil
	}
	return &StoreView{ID: s.ID, Name: s.Name, Address: s.Address}
}

func lineViews(items []LineItem) []LineView {
	out := make([]LineView, len(items))
	for i, it := range items {
		out[i] = LineView{
			ItemCode: it.Code,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price.InexactFloat64(),
			Options:  it.Options,
		}
	}
	return out
}
