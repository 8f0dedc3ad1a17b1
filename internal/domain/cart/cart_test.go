package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardBox() Item {
	return Item{
		ProductID: "prod_standard_box",
		Title:     "Standard Roll Box",
		UnitPrice: 10200,
		Size:      "78mm x 50mtrs",
	}
}

func compactBox() Item {
	return Item{
		ProductID: "prod_compact_box",
		Title:     "Compact Roll Box",
		UnitPrice: 4500,
		Size:      "56mm x 25mtrs",
	}
}

func TestAdd_NewItemGetsQuantityOne(t *testing.T) {
	var c Cart
	c.Add(standardBox())

	require.Len(t, c, 1)
	assert.Equal(t, 1, c[0].Quantity)
	assert.Equal(t, "Standard Roll Box", c[0].Title)
}

func TestAdd_SameTitleIncrements(t *testing.T) {
	var c Cart
	c.Add(standardBox())
	c.Add(standardBox())
	c.Add(compactBox())

	require.Len(t, c, 2)
	assert.Equal(t, 2, c[0].Quantity)
	assert.Equal(t, 1, c[1].Quantity)
	assert.Equal(t, 3, c.TotalQuantity())
}

func TestRemove(t *testing.T) {
	var c Cart
	c.Add(standardBox())
	c.Add(compactBox())

	c.Remove("Standard Roll Box")

	require.Len(t, c, 1)
	assert.Equal(t, "Compact Roll Box", c[0].Title)

	// removing an unknown title is a no-op
	c.Remove("nonexistent")
	assert.Len(t, c, 1)
}

func TestUpdateQuantity_ReplacesQuantity(t *testing.T) {
	var c Cart
	c.Add(standardBox())

	c.UpdateQuantity("Standard Roll Box", 5)

	require.Len(t, c, 1)
	assert.Equal(t, 5, c[0].Quantity)
}

func TestUpdateQuantity_ZeroEqualsRemove(t *testing.T) {
	build := func() Cart {
		var c Cart
		c.Add(standardBox())
		c.Add(compactBox())
		return c
	}

	viaUpdate := build()
	viaUpdate.UpdateQuantity("Standard Roll Box", 0)

	viaRemove := build()
	viaRemove.Remove("Standard Roll Box")

	assert.Equal(t, viaRemove, viaUpdate)

	negative := build()
	negative.UpdateQuantity("Standard Roll Box", -3)
	assert.Equal(t, viaRemove, negative)
}

func TestClear(t *testing.T) {
	var c Cart
	c.Add(standardBox())
	c.Add(compactBox())

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalQuantity())
	assert.Equal(t, 0.0, c.Subtotal())
}

func TestSubtotal(t *testing.T) {
	var c Cart
	c.Add(standardBox())
	c.Add(standardBox())
	c.Add(compactBox())

	// 2 x 10200 + 1 x 4500
	assert.Equal(t, 24900.0, c.Subtotal())
}

func TestNormalize_DropsInvalidQuantities(t *testing.T) {
	c := Cart{
		{Title: "Standard Roll Box", UnitPrice: 10200, Quantity: 2},
		{Title: "Compact Roll Box", UnitPrice: 4500, Quantity: 0},
		{Title: "Custom Solutions", Quantity: -1},
	}

	got := c.Normalize()

	require.Len(t, got, 1)
	assert.Equal(t, "Standard Roll Box", got[0].Title)
}

func TestClone_IsIndependent(t *testing.T) {
	var c Cart
	c.Add(standardBox())

	snap := c.Clone()
	c.UpdateQuantity("Standard Roll Box", 7)

	assert.Equal(t, 1, snap[0].Quantity)
	assert.Equal(t, 7, c[0].Quantity)
}
