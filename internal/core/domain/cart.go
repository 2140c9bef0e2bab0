package domain

import "errors"

var (
	ErrStockExceeded = errors.New("quantity exceeds stock snapshot")
	ErrDiscountRange = errors.New("discount must be between 0 and 100")
)

// CartLine holds one product in the cart. UnitPrice and Stock are captured
// when the product is first added, so later catalog edits do not change an
// open cart.
type CartLine struct {
	ProductID string
	Name      string
	UnitPrice int64
	Stock     int
	Qty       int
}

func (l CartLine) LineTotal() int64 { return l.UnitPrice * int64(l.Qty) }

// Totals is the derived money view of a cart.
type Totals struct {
	Subtotal       int64
	DiscountAmount int64
	Total          int64
}

// Cart is the mutable in-progress aggregate for one sale. It is pure
// computation with no I/O; callers serialize access to it.
type Cart struct {
	lines    []*CartLine // insertion order, drives receipt order
	index    map[string]*CartLine
	discount int // percent
}

func NewCart() *Cart {
	return &Cart{index: make(map[string]*CartLine)}
}

// AddItem inserts the product with quantity 1, or increments an existing
// line. Out-of-stock products and lines already at the stock snapshot are
// ignored.
func (c *Cart) AddItem(p Product) {
	if p.Stock == 0 {
		return
	}
	if line, ok := c.index[p.ID]; ok {
		if line.Qty >= line.Stock {
			return
		}
		line.Qty++
		return
	}
	line := &CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Stock:     p.Stock,
		Qty:       1,
	}
	c.lines = append(c.lines, line)
	c.index[p.ID] = line
}

// ChangeQty adjusts a line's quantity by delta. A result of zero or less
// removes the line. A result above the stock snapshot is rejected rather
// than clamped, so the caller sees the oversell attempt.
func (c *Cart) ChangeQty(productID string, delta int) error {
	line, ok := c.index[productID]
	if !ok {
		return nil
	}
	newQty := line.Qty + delta
	if newQty <= 0 {
		c.remove(productID)
		return nil
	}
	if newQty > line.Stock {
		return ErrStockExceeded
	}
	line.Qty = newQty
	return nil
}

func (c *Cart) remove(productID string) {
	delete(c.index, productID)
	for i, line := range c.lines {
		if line.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetDiscount sets the discount percentage. Out-of-range input is rejected,
// not clamped, to surface caller bugs.
func (c *Cart) SetDiscount(pct int) error {
	if pct < 0 || pct > 100 {
		return ErrDiscountRange
	}
	c.discount = pct
	return nil
}

func (c *Cart) Discount() int { return c.discount }

// Clear empties the cart and resets the discount.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]*CartLine)
	c.discount = 0
}

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.lines {
		n += line.Qty
	}
	return n
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	for i, line := range c.lines {
		out[i] = *line
	}
	return out
}

// Totals derives subtotal, discount amount and total. The discount amount
// uses round-half-up integer rounding so totals stay in whole so'm.
func (c *Cart) Totals() Totals {
	var subtotal int64
	for _, line := range c.lines {
		subtotal += line.LineTotal()
	}
	discountAmt := (subtotal*int64(c.discount) + 50) / 100
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmt,
		Total:          subtotal - discountAmt,
	}
}
