package port

import (
	"context"

	"github.com/rl1809/savdo-pos/internal/core/domain"
)

// Printer receives the receipt artifact. Print failure does not fail the
// sale; the transaction is already committed or buffered by then.
type Printer interface {
	Print(ctx context.Context, r domain.Receipt) error
}
