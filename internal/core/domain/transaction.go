package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentTransfer
}

type SyncStatus string

const (
	SyncSubmitted SyncStatus = "submitted"
	SyncPending   SyncStatus = "pending"
	SyncSynced    SyncStatus = "synced"
	SyncFailed    SyncStatus = "failed"
)

// TransactionLine is a frozen copy of a cart line at checkout time.
type TransactionLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
}

func (l TransactionLine) LineTotal() int64 { return l.UnitPrice * int64(l.Qty) }

// Transaction is an immutable record of a completed sale. Only Status
// changes after creation, as the sale moves through the sync pipeline.
type Transaction struct {
	ID             string            `json:"id"`
	Lines          []TransactionLine `json:"lines"`
	Subtotal       int64             `json:"subtotal"`
	DiscountPct    int               `json:"discount_pct"`
	DiscountAmount int64             `json:"discount_amount"`
	Total          int64             `json:"total"`
	Method         PaymentMethod     `json:"method"`
	Cashier        string            `json:"cashier"`
	CreatedAt      time.Time         `json:"created_at"`
	Status         SyncStatus        `json:"status"`
}

// NewTransaction snapshots a cart into a transaction. The cart is not
// modified; clearing it is the caller's decision once the sale is safe.
func NewTransaction(cart *Cart, method PaymentMethod, cashier string, now time.Time) Transaction {
	cartLines := cart.Lines()
	lines := make([]TransactionLine, len(cartLines))
	for i, l := range cartLines {
		lines[i] = TransactionLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
		}
	}
	totals := cart.Totals()
	return Transaction{
		ID:             uuid.NewString(),
		Lines:          lines,
		Subtotal:       totals.Subtotal,
		DiscountPct:    cart.Discount(),
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		Method:         method,
		Cashier:        cashier,
		CreatedAt:      now,
		Status:         SyncSubmitted,
	}
}
