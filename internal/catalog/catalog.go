// Package catalog holds the static store and menu reference data the tool
// handlers operate on. Everything here is read-only; mutable order state
// lives in the order package.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Store is a single pickup/delivery location.
type Store struct {
	ID      string
	Name    string
	Address string
}

// MenuItem is one orderable product. Price is the unit price in dollars.
type MenuItem struct {
	Code     string
	Name     string
	Price    decimal.Decimal
	Category string
}

// Catalog bundles the store list and menu. The zero value is unusable;
// construct with New.
type Catalog struct {
	stores []Store
	items  []MenuItem
}

// New returns a Catalog seeded with the demo store and menu data.
func New() *Catalog {
	return &Catalog{stores: demoStores(), items: demoMenu()}
}

// FindStore matches by exact store ID or by substring of the address.
// The first match wins; there is no ranking.
func (c *Catalog) FindStore(query string) (Store, bool) {
	for _, s := range c.stores {
		if s.ID == query || strings.Contains(s.Address, query) {
			return s, true
		}
	}
	return Store{}, false
}

// Items returns every menu item.
func (c *Catalog) Items() []MenuItem {
	out := make([]MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// ItemByCode looks up a single menu item by its product code.
func (c *Catalog) ItemByCode(code string) (MenuItem, bool) {
	for _, it := range c.items {
		if it.Code == code {
			return it, true
		}
	}
	return MenuItem{}, false
}

// Search returns every item whose name or category contains the query,
// case-insensitively. An empty result is not an error.
func (c *Catalog) Search(query string) []MenuItem {
	q := strings.ToLower(query)
	out := make([]MenuItem, 0, len(c.items))
	for _, it := range c.items {
		if strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Category), q) {
			out = append(out, it)
		}
	}
	return out
}

// Categories returns the fixed category list. The list is intentionally
// static and independent of which items actually exist in the menu.
func Categories() []string {
	return []string{"pizza", "wings", "pasta", "sides", "drinks"}
}
