package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindStore(t *testing.T) {
	c := New()

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantHit bool
	}{
		{name: "exact id", query: "10001", wantID: "10001", wantHit: true},
		{name: "address substring", query: "Auburn", wantID: "95608", wantHit: true},
		{name: "zip inside address", query: "95608", wantID: "95608", wantHit: true},
		{name: "no match", query: "Chicago", wantHit: false},
		{name: "case sensitive address", query: "auburn", wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := c.FindStore(tt.query)
			assert.Equal(t, tt.wantHit, ok)
			if tt.wantHit {
				assert.Equal(t, tt.wantID, s.ID)
			}
		})
	}
}

func TestFindStoreFirstMatchWins(t *testing.T) {
	c := New()

	// A comma appears in both addresses; the first store must win.
	s, ok := c.FindStore(",")
	require.True(t, ok)
	assert.Equal(t, "10001", s.ID)
}

func TestSearch(t *testing.T) {
	c := New()

	t.Run("by name fragment", func(t *testing.T) {
		got := c.Search("pepperoni")
		require.Len(t, got, 1)
		assert.Equal(t, "M_PEPPERONI", got[0].Code)
	})

	t.Run("by category", func(t *testing.T) {
		got := c.Search("PIZZA")
		assert.Len(t, got, 2)
	})

	t.Run("no match is empty not nil", func(t *testing.T) {
		got := c.Search("sushi")
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty query matches everything", func(t *testing.T) {
		assert.Len(t, c.Search(""), len(c.Items()))
	})
}

func TestItemByCode(t *testing.T) {
	c := New()

	it, ok := c.ItemByCode("WINGS_BBQ")
	require.True(t, ok)
	assert.Equal(t, "BBQ Wings (8pc)", it.Name)
	assert.Equal(t, "8.99", it.Price.String())

	_, ok = c.ItemByCode("NOPE")
	assert.False(t, ok)
}

func TestCategoriesAreFixed(t *testing.T) {
	// The category list is a fixed enumeration, not derived from the menu:
	// sides and drinks are listed even though no such items exist.
	assert.Equal(t, []string{"pizza", "wings", "pasta", "sides", "drinks"}, Categories())
}
