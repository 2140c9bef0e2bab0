package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	cart := NewCart()
	cart.AddItem(cola)
	cart.AddItem(cola)
	require.NoError(t, cart.SetDiscount(10))

	now := time.Date(2026, 9, 1, 14, 32, 0, 0, time.UTC)
	txn := NewTransaction(cart, PaymentCard, "Aziz Karimov", now)

	assert.NotEmpty(t, txn.ID)
	require.Len(t, txn.Lines, 1)
	assert.Equal(t, 2, txn.Lines[0].Qty)
	assert.Equal(t, int64(8000), txn.Lines[0].UnitPrice)
	assert.Equal(t, int64(16000), txn.Subtotal)
	assert.Equal(t, 10, txn.DiscountPct)
	assert.Equal(t, int64(1600), txn.DiscountAmount)
	assert.Equal(t, int64(14400), txn.Total)
	assert.Equal(t, PaymentCard, txn.Method)
	assert.Equal(t, "Aziz Karimov", txn.Cashier)
	assert.Equal(t, now, txn.CreatedAt)
	assert.Equal(t, SyncSubmitted, txn.Status)

	// The snapshot leaves the cart untouched; clearing is the caller's call.
	assert.False(t, cart.IsEmpty())
}

func TestTransaction_JSONRoundTrip(t *testing.T) {
	cart := NewCart()
	cart.AddItem(cola)
	cart.AddItem(chai)
	require.NoError(t, cart.SetDiscount(5))

	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	txn := NewTransaction(cart, PaymentCash, "Malika R.", now)

	data, err := json.Marshal(txn)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, txn, decoded)
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentCard.Valid())
	assert.True(t, PaymentTransfer.Valid())
	assert.False(t, PaymentMethod("crypto").Valid())
	assert.False(t, PaymentMethod("").Valid())
}
