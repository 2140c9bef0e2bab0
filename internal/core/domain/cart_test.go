package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cola = Product{ID: "p1", Barcode: "8690637", Name: "Coca Cola 0.5L", Category: "Ichimliklar", Price: 8000, Stock: 4, MinStock: 50}
	oreo = Product{ID: "p5", Barcode: "7622210", Name: "Oreo Original", Category: "Shirinliklar", Price: 11000, Stock: 0, MinStock: 20}
	chai = Product{ID: "p2", Barcode: "6931001", Name: "Lipton Qora Choy", Category: "Choy/Kofe", Price: 12000, Stock: 5, MinStock: 30}
)

func TestAddItem(t *testing.T) {
	cart := NewCart()
	cart.AddItem(cola)
	cart.AddItem(cola)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Qty)
	assert.Equal(t, int64(8000), lines[0].UnitPrice)
	assert.Equal(t, "Coca Cola 0.5L", lines[0].Name)
}

func TestAddItem_OutOfStock(t *testing.T) {
	cart := NewCart()
	cart.AddItem(oreo)
	assert.True(t, cart.IsEmpty())
}

func TestAddItem_CappedAtStockSnapshot(t *testing.T) {
	cart := NewCart()
	for i := 0; i < 10; i++ {
		cart.AddItem(cola)
	}
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, cola.Stock, lines[0].Qty)
}

func TestChangeQty_RemovesAtZero(t *testing.T) {
	cart := NewCart()
	cart.AddItem(cola)

	require.NoError(t, cart.ChangeQty(cola.ID, -1))
	assert.True(t, cart.IsEmpty())
}

func TestChangeQty_RejectsOversell(t *testing.T) {
	// Stock snapshot is 5; pushing quantity to 6 must be rejected, not
	// clamped, and the cart must be unchanged.
	cart := NewCart()
	for i := 0; i < 5; i++ {
		cart.AddItem(chai)
	}

	err := cart.ChangeQty(chai.ID, 1)
	assert.ErrorIs(t, err, ErrStockExceeded)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Qty)
}

func TestChangeQty_UnknownProductIsNoop(t *testing.T) {
	cart := NewCart()
	cart.AddItem(cola)

	require.NoError(t, cart.ChangeQty("missing", 1))
	assert.Equal(t, 1, cart.ItemCount())
}

func TestSetDiscount_RejectsOutOfRange(t *testing.T) {
	cart := NewCart()
	assert.ErrorIs(t, cart.SetDiscount(-1), ErrDiscountRange)
	assert.ErrorIs(t, cart.SetDiscount(101), ErrDiscountRange)
	assert.Equal(t, 0, cart.Discount())

	require.NoError(t, cart.SetDiscount(100))
	assert.Equal(t, 100, cart.Discount())
}

func TestTotals(t *testing.T) {
	// 2 x 8000 with 10% discount: subtotal 16000, discount 1600, total 14400.
	cart := NewCart()
	cart.AddItem(cola)
	cart.AddItem(cola)
	require.NoError(t, cart.SetDiscount(10))

	totals := cart.Totals()
	assert.Equal(t, int64(16000), totals.Subtotal)
	assert.Equal(t, int64(1600), totals.DiscountAmount)
	assert.Equal(t, int64(14400), totals.Total)
}

func TestTotals_RoundHalfUp(t *testing.T) {
	cart := NewCart()
	cart.AddItem(Product{ID: "x", Name: "X", Price: 1001, Stock: 10})
	require.NoError(t, cart.SetDiscount(5))

	// 1001 * 5% = 50.05 -> 50; with price 1009, 50.45 -> 50; 1010*5%=50.5 -> 51
	assert.Equal(t, int64(50), cart.Totals().DiscountAmount)

	cart.Clear()
	cart.AddItem(Product{ID: "y", Name: "Y", Price: 1010, Stock: 10})
	require.NoError(t, cart.SetDiscount(5))
	assert.Equal(t, int64(51), cart.Totals().DiscountAmount)
}

func TestTotals_Idempotent(t *testing.T) {
	cart := NewCart()
	cart.AddItem(cola)
	cart.AddItem(chai)
	require.NoError(t, cart.SetDiscount(15))

	first := cart.Totals()
	second := cart.Totals()
	assert.Equal(t, first, second)
	assert.Equal(t, int64(8000+12000), first.Subtotal)
}

func TestClear(t *testing.T) {
	cart := NewCart()
	cart.AddItem(cola)
	require.NoError(t, cart.SetDiscount(10))

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.Discount())
	assert.Equal(t, int64(0), cart.Totals().Total)
}

func TestLines_InsertionOrder(t *testing.T) {
	cart := NewCart()
	cart.AddItem(chai)
	cart.AddItem(cola)
	cart.AddItem(chai)

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, chai.ID, lines[0].ProductID)
	assert.Equal(t, cola.ID, lines[1].ProductID)
}
