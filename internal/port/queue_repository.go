package port

import (
	"context"
	"time"

	"github.com/rl1809/savdo-pos/internal/core/domain"
)

// QueueEntry wraps a buffered transaction with its position in the queue.
type QueueEntry struct {
	Seq         int64
	Transaction domain.Transaction
	EnqueuedAt  time.Time
}

// PendingQueue is the durable local buffer of unsynced transactions.
// Enqueue must complete its durable write before returning; entries drain
// in FIFO insertion order.
type PendingQueue interface {
	// Enqueue appends a transaction; durable before return
	Enqueue(ctx context.Context, txn domain.Transaction) error

	// Entries returns the full queue snapshot in FIFO order
	Entries(ctx context.Context) ([]QueueEntry, error)

	// RemoveAll clears the queue after a fully accepted drain
	RemoveAll(ctx context.Context) error

	// Len reports the number of buffered transactions
	Len(ctx context.Context) (int, error)
}
