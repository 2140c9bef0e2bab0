package port

import (
	"context"
	"errors"

	"github.com/rl1809/savdo-pos/internal/core/domain"
)

// ErrTransactionRejected means the backend refused the write for data
// reasons (validation), as opposed to a transport failure. Replaying a
// rejected transaction can never succeed, so it must not be buffered.
var ErrTransactionRejected = errors.New("transaction rejected by backend")

// BackendRepository is the remote write interface. Calls have binary
// success/failure semantics and no partial writes.
type BackendRepository interface {
	// InsertTransaction persists a completed sale; idempotent on replay
	InsertTransaction(ctx context.Context, txn domain.Transaction) error

	// InsertExpense records a back-office expense
	InsertExpense(ctx context.Context, exp domain.Expense) error

	// ListProducts returns the catalog snapshot the terminal sells from
	ListProducts(ctx context.Context) (domain.Catalog, error)
}
