package domain

import "time"

// Receipt is the print artifact handed to the printer surface. Formatting
// is the printer's concern; this only carries the structured content.
type Receipt struct {
	StoreName    string
	StoreAddress string
	Number       int
	Cashier      string
	IssuedAt     time.Time
	Lines        []TransactionLine
	Subtotal     int64
	DiscountAmt  int64
	Total        int64
	Method       PaymentMethod
}

func BuildReceipt(txn Transaction, storeName, storeAddress string, number int) Receipt {
	return Receipt{
		StoreName:    storeName,
		StoreAddress: storeAddress,
		Number:       number,
		Cashier:      txn.Cashier,
		IssuedAt:     txn.CreatedAt,
		Lines:        txn.Lines,
		Subtotal:     txn.Subtotal,
		DiscountAmt:  txn.DiscountAmount,
		Total:        txn.Total,
		Method:       txn.Method,
	}
}
