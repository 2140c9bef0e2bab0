package domain

import "time"

// Expense is a back-office outgoing payment (utilities, rent, supplies).
// Expenses are online-only and are not buffered by the pending queue.
type Expense struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Cashier     string    `json:"cashier"`
}
