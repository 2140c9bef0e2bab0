package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/savdo-pos/internal/core/domain"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "terminal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testTransaction(t *testing.T, id string) domain.Transaction {
	t.Helper()
	cart := domain.NewCart()
	cart.AddItem(domain.Product{ID: "p1", Name: "Coca Cola 0.5L", Price: 8000, Stock: 100})
	cart.AddItem(domain.Product{ID: "p1", Name: "Coca Cola 0.5L", Price: 8000, Stock: 100})
	require.NoError(t, cart.SetDiscount(10))

	txn := domain.NewTransaction(cart, domain.PaymentCash, "Aziz", time.Date(2026, 9, 1, 11, 30, 0, 0, time.UTC))
	txn.ID = id
	txn.Status = domain.SyncPending
	return txn
}

func TestQueue_FIFOOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, store.Enqueue(ctx, testTransaction(t, id)))
	}

	entries, err := store.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "t1", entries[0].Transaction.ID)
	assert.Equal(t, "t2", entries[1].Transaction.ID)
	assert.Equal(t, "t3", entries[2].Transaction.ID)
	assert.Less(t, entries[0].Seq, entries[1].Seq)
}

func TestQueue_TransactionSurvivesRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	txn := testTransaction(t, "t1")
	require.NoError(t, store.Enqueue(ctx, txn))

	entries, err := store.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, txn, entries[0].Transaction)
}

func TestQueue_DuplicateEnqueueIsNoop(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	txn := testTransaction(t, "t1")
	require.NoError(t, store.Enqueue(ctx, txn))
	require.NoError(t, store.Enqueue(ctx, txn))

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestQueue_RemoveAll(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Enqueue(ctx, testTransaction(t, "t1")))
	require.NoError(t, store.Enqueue(ctx, testTransaction(t, "t2")))
	require.NoError(t, store.RemoveAll(ctx))

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	entries, err := store.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSettings_DefaultsWhenUnset(t *testing.T) {
	store := openTestStore(t)

	cfg, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), cfg)
	assert.Equal(t, 125, cfg.ReceiptNo)
}

func TestSettings_SaveLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	cfg := domain.DefaultSettings()
	cfg.Dark = false
	cfg.Language = "RU"
	cfg.ReceiptNo = 321
	require.NoError(t, store.Save(ctx, cfg))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// Upsert overwrites the single settings row.
	cfg.ReceiptNo = 322
	require.NoError(t, store.Save(ctx, cfg))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 322, loaded.ReceiptNo)
}
