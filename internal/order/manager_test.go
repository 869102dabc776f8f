package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpizza/mcpizza/internal/catalog"
)

func newManager() *Manager {
	return NewManager(catalog.New())
}

func TestSelectStore(t *testing.T) {
	m := newManager()

	res := m.SelectStore("10001")
	require.True(t, res.Success)
	require.NotNil(t, res.Store)
	assert.Equal(t, "Domino's - Manhattan", res.Store.Name)
	assert.Equal(t, "Found store: Domino's - Manhattan", res.Message)

	// A later selection replaces the earlier one.
	res = m.SelectStore("Auburn")
	require.True(t, res.Success)
	cats := m.MenuCategories()
	assert.Equal(t, "Domino's - Auburn", cats.Store)
}

func TestSelectStoreMiss(t *testing.T) {
	m := newManager()

	res := m.SelectStore("nowhere")
	assert.False(t, res.Success)
	assert.Equal(t, "No store found for the given address", res.Error)
	assert.Nil(t, res.Store)
}

func TestSearchRequiresStore(t *testing.T) {
	m := newManager()

	res := m.SearchMenu("pizza")
	assert.False(t, res.Success)
	assert.Equal(t, "Please select a store first using find_dominos_store", res.Error)

	cats := m.MenuCategories()
	assert.False(t, cats.Success)
	assert.Equal(t, "Please select a store first using find_dominos_store", cats.Error)

	// A failed selection must not unlock the menu.
	m.SelectStore("nowhere")
	assert.False(t, m.SearchMenu("pizza").Success)
}

func TestSearchMenu(t *testing.T) {
	m := newManager()
	require.True(t, m.SelectStore("10001").Success)

	res := m.SearchMenu("pizza")
	require.True(t, res.Success)
	assert.Equal(t, "pizza", res.Query)
	require.NotNil(t, res.Count)
	assert.Equal(t, 2, *res.Count)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 12.99, res.Items[0].Price)

	empty := m.SearchMenu("sushi")
	require.True(t, empty.Success)
	assert.Equal(t, 0, *empty.Count)
	assert.NotNil(t, empty.Items)
}

func TestSearchMenuNoMatchMarshalsEmptyList(t *testing.T) {
	m := newManager()
	require.True(t, m.SelectStore("10001").Success)

	data, err := json.Marshal(m.SearchMenu("sushi"))
	require.NoError(t, err)

	// A zero-match search is still a success with an explicit empty list.
	assert.Contains(t, string(data), `"items":[]`)
	assert.Contains(t, string(data), `"count":0`)
	assert.Contains(t, string(data), `"success":true`)

	// The nil slice on the failure payload stays omitted.
	data, err = json.Marshal(newManager().SearchMenu("pizza"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"items"`)
}

func TestAddItem(t *testing.T) {
	m := newManager()

	res := m.AddItem("M_PEPPERONI", 2, nil)
	require.True(t, res.Success)
	assert.Equal(t, "Added 2x Medium Pepperoni Pizza to order", res.Message)
	assert.Equal(t, 1, res.OrderItems)

	res = m.AddItem("WINGS_BBQ", 1, map[string]any{"sauce": "extra"})
	require.True(t, res.Success)
	assert.Equal(t, 2, res.OrderItems)

	view := m.View()
	require.Len(t, view.Order.Items, 2)
	assert.Equal(t, "M_PEPPERONI", view.Order.Items[0].ItemCode)
	assert.Equal(t, 2, view.Order.Items[0].Quantity)
	assert.Equal(t, map[string]any{"sauce": "extra"}, view.Order.Items[1].Options)
}

func TestAddItemUnknownCode(t *testing.T) {
	m := newManager()

	res := m.AddItem("BOGUS", 1, nil)
	assert.False(t, res.Success)
	assert.Equal(t, "Item with code BOGUS not found", res.Error)
	assert.Equal(t, 0, m.ItemCount())
}

func TestViewEstimatedTotal(t *testing.T) {
	m := newManager()

	view := m.View()
	assert.True(t, view.Success)
	assert.Equal(t, 0, view.TotalItems)
	assert.Equal(t, 0.0, view.EstimatedTotal)
	assert.Nil(t, view.Order.Total)

	m.AddItem("M_PEPPERONI", 2, nil)
	view = m.View()
	assert.InDelta(t, 25.98, view.EstimatedTotal, 1e-9)

	m.AddItem("WINGS_BBQ", 1, nil)
	view = m.View()
	assert.InDelta(t, 34.97, view.EstimatedTotal, 1e-9)
}

func TestSetCustomerReplaces(t *testing.T) {
	m := newManager()

	first := CustomerInfo{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Phone: "555-0100",
		Address: Address{Street: "1 Analytical Way", City: "London", Region: "LDN", Zip: "00001"},
	}
	res := m.SetCustomer(first)
	require.True(t, res.Success)
	assert.Equal(t, "Customer information saved", res.Message)
	assert.Equal(t, "Ada", res.Customer.FirstName)

	second := CustomerInfo{
		FirstName: "Grace", LastName: "Hopper",
		Email: "grace@example.com", Phone: "555-0101",
		Address: Address{Street: "2 Compiler Ct", City: "Arlington", Region: "VA", Zip: "22201"},
	}
	m.SetCustomer(second)

	view := m.View()
	require.NotNil(t, view.Order.Customer)
	assert.Equal(t, "Grace", view.Order.Customer.FirstName)
}

func TestCalculateTotalBreakdown(t *testing.T) {
	m := newManager()
	m.AddItem("M_PEPPERONI", 2, nil)

	res := m.CalculateTotal()
	require.True(t, res.Success)
	require.NotNil(t, res.Breakdown)
	assert.Equal(t, 25.98, res.Breakdown.Subtotal)
	assert.Equal(t, 2.08, res.Breakdown.Tax) // 25.98 * 0.08 = 2.0784, rounded to cents
	assert.Equal(t, 2.99, res.Breakdown.DeliveryFee)
	assert.Equal(t, 31.05, res.Breakdown.Total)

	// The computed total is stored on the order.
	view := m.View()
	require.NotNil(t, view.Order.Total)
	assert.Equal(t, 31.05, *view.Order.Total)
}

func TestCalculateTotalIdempotent(t *testing.T) {
	m := newManager()
	m.AddItem("PASTA_ALFREDO", 3, nil)

	first := m.CalculateTotal()
	second := m.CalculateTotal()
	assert.Equal(t, first.Breakdown, second.Breakdown)
}

func TestCalculateTotalEmptyOrder(t *testing.T) {
	m := newManager()

	res := m.CalculateTotal()
	require.True(t, res.Success)
	assert.Equal(t, 0.0, res.Breakdown.Subtotal)
	assert.Equal(t, 0.0, res.Breakdown.Tax)
	assert.Equal(t, 2.99, res.Breakdown.Total)
}

func TestPrepareOrderEmpty(t *testing.T) {
	m := newManager()

	res := m.PrepareOrder()
	assert.False(t, res.Success)
	assert.Equal(t, "No items in order", res.Error)
	assert.Nil(t, res.Preview)

	// No state mutation: the order still has no stored total.
	assert.Nil(t, m.View().Order.Total)
}

func TestPrepareOrderComputesMissingTotal(t *testing.T) {
	m := newManager()
	m.SelectStore("10001")
	m.AddItem("M_PEPPERONI", 2, nil)

	res := m.PrepareOrder()
	require.True(t, res.Success)
	require.NotNil(t, res.Preview)
	assert.Equal(t, 31.05, res.Preview.Total)
	assert.Equal(t, "Order prepared for preview (safe mode - no actual order placed)", res.Message)
	assert.Equal(t, "Real order placement is disabled for safety", res.Warning)
	require.NotNil(t, res.Preview.Store)
	assert.Equal(t, "10001", res.Preview.Store.ID)
}

func TestPrepareOrderUsesStoredTotal(t *testing.T) {
	m := newManager()
	m.AddItem("WINGS_BBQ", 1, nil)
	m.CalculateTotal()

	// Adding an item without recalculating leaves the stored total stale;
	// the preview reports the stored value, matching the source behavior.
	m.AddItem("WINGS_BBQ", 1, nil)
	res := m.PrepareOrder()
	require.True(t, res.Success)
	assert.Equal(t, 12.7, res.Preview.Total) // 8.99 + 0.72 + 2.99
	assert.Len(t, res.Preview.Items, 2)
}
