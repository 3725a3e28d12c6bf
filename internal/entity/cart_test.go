package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeProduct(id string, priceCents int64, stock int) *Product {
	return &Product{ID: id, Name: "p-" + id, PriceCents: priceCents, StockQuantity: stock, IsActive: true}
}

func assertDerived(t *testing.T, c *Cart) {
	t.Helper()
	var total int64
	var count int
	for _, it := range c.Items {
		total += it.UnitPriceCents * int64(it.Quantity)
		count += it.Quantity
	}
	assert.Equal(t, total, c.TotalCents)
	assert.Equal(t, count, c.ItemCount)
}

func TestCartAddItemMergesExistingLine(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("a", 1000, 10)

	require.NoError(t, c.AddItem(p, 2))
	require.NoError(t, c.AddItem(p, 3))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, int64(5000), c.TotalCents)
	assert.Equal(t, 5, c.ItemCount)
}

func TestCartAddItemMergedQuantityChecksStock(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("a", 1000, 4)

	require.NoError(t, c.AddItem(p, 3))
	err := c.AddItem(p, 3)

	var ise *InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 6, ise.Requested)
	assert.Equal(t, 4, ise.Available)
	// failed add leaves the cart untouched
	assert.Equal(t, 3, c.Items[0].Quantity)
	assertDerived(t, c)
}

func TestCartAddItemRejectsUnavailableProduct(t *testing.T) {
	c := NewCart("u1")

	inactive := activeProduct("a", 1000, 10)
	inactive.IsActive = false
	assert.ErrorIs(t, c.AddItem(inactive, 1), ErrProductUnavailable)

	outOfStock := activeProduct("b", 1000, 0)
	assert.ErrorIs(t, c.AddItem(outOfStock, 1), ErrProductUnavailable)

	assert.True(t, c.IsEmpty())
}

func TestCartAddItemQuantityBounds(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("a", 100, 1000)

	assert.ErrorIs(t, c.AddItem(p, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(p, -1), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(p, MaxLineQuantity+1), ErrInvalidQuantity)

	require.NoError(t, c.AddItem(p, MaxLineQuantity))
	assert.ErrorIs(t, c.AddItem(p, 1), ErrInvalidQuantity) // merged line would exceed the cap
}

func TestCartAddItemSnapshotsCurrentPrice(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("a", 1000, 10)
	require.NoError(t, c.AddItem(p, 1))

	// a later catalog price change must not reprice the existing line
	p.PriceCents = 9999
	assert.Equal(t, int64(1000), c.Items[0].UnitPriceCents)
	assert.Equal(t, int64(1000), c.TotalCents)
}

func TestCartUpdateItemZeroRemovesLine(t *testing.T) {
	c := NewCart("u1")
	a := activeProduct("a", 1000, 10)
	b := activeProduct("b", 500, 10)
	require.NoError(t, c.AddItem(a, 2))
	require.NoError(t, c.AddItem(b, 4))
	before := c.TotalCents

	require.NoError(t, c.UpdateItem(b, 0))

	require.Len(t, c.Items, 1)
	assert.Equal(t, "a", c.Items[0].ProductID)
	assert.Equal(t, before-4*500, c.TotalCents)
	assertDerived(t, c)
}

func TestCartUpdateItemInsufficientStock(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("a", 1000, 5)
	require.NoError(t, c.AddItem(p, 2))

	var ise *InsufficientStockError
	require.ErrorAs(t, c.UpdateItem(p, 6), &ise)
	assert.Equal(t, 5, ise.Available)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestCartUpdateItemMissingLine(t *testing.T) {
	c := NewCart("u1")
	assert.ErrorIs(t, c.UpdateItem(activeProduct("ghost", 100, 10), 2), ErrProductNotFound)
}

func TestCartRemoveItemIdempotent(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("a", 1000, 10)
	require.NoError(t, c.AddItem(p, 2))

	c.RemoveItem("not-in-cart")
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(2000), c.TotalCents)

	c.RemoveItem("a")
	c.RemoveItem("a")
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.TotalCents)
	assert.Zero(t, c.ItemCount)
}

func TestCartDerivedFieldsAcrossMutationSequence(t *testing.T) {
	c := NewCart("u1")
	a := activeProduct("a", 199, 50)
	b := activeProduct("b", 2500, 50)

	require.NoError(t, c.AddItem(a, 3))
	assertDerived(t, c)
	require.NoError(t, c.AddItem(b, 1))
	assertDerived(t, c)
	require.NoError(t, c.UpdateItem(a, 7))
	assertDerived(t, c)
	c.RemoveItem("b")
	assertDerived(t, c)
	require.NoError(t, c.AddItem(b, 2))
	assertDerived(t, c)
	c.Clear()
	assertDerived(t, c)
	assert.True(t, c.IsEmpty())
}
