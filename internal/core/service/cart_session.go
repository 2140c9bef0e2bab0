package service

import (
	"errors"
	"sync"

	"github.com/rl1809/savdo-pos/internal/core/domain"
)

var ErrUnknownProduct = errors.New("product not in catalog")

// CartSession owns the single active cart of the terminal. Handlers run on
// their own goroutines, so all cart access goes through the session mutex;
// the cart itself stays pure.
type CartSession struct {
	mu      sync.Mutex
	cart    *domain.Cart
	catalog domain.Catalog
}

func NewCartSession(catalog domain.Catalog) *CartSession {
	return &CartSession{
		cart:    domain.NewCart(),
		catalog: catalog,
	}
}

// ReloadCatalog swaps the product snapshot. Open cart lines keep the
// prices and stock captured when they were added.
func (s *CartSession) ReloadCatalog(catalog domain.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
}

func (s *CartSession) Catalog() domain.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(domain.Catalog, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *CartSession) AddItem(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.catalog.ByID(productID)
	if !ok {
		return ErrUnknownProduct
	}
	s.cart.AddItem(p)
	return nil
}

// AddByBarcode handles the scanner path: exact barcode match adds one unit.
func (s *CartSession) AddByBarcode(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.catalog.ByBarcode(code)
	if !ok {
		return ErrUnknownProduct
	}
	s.cart.AddItem(p)
	return nil
}

func (s *CartSession) ChangeQty(productID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ChangeQty(productID, delta)
}

func (s *CartSession) SetDiscount(pct int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.SetDiscount(pct)
}

func (s *CartSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// CartView is a read snapshot of the open cart for the API layer.
type CartView struct {
	Lines     []domain.CartLine
	Discount  int
	ItemCount int
	Totals    domain.Totals
}

func (s *CartSession) View() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CartView{
		Lines:     s.cart.Lines(),
		Discount:  s.cart.Discount(),
		ItemCount: s.cart.ItemCount(),
		Totals:    s.cart.Totals(),
	}
}
