package domain

// Product is a read-only snapshot of a catalog item. Stock and price are
// owned by the inventory backend; the cart only captures them at add-time.
type Product struct {
	ID       string
	Barcode  string
	Name     string
	Category string
	Price    int64 // unit price in so'm
	Stock    int
	MinStock int
}

func (p Product) OutOfStock() bool { return p.Stock == 0 }

func (p Product) LowStock() bool { return p.Stock > 0 && p.Stock < p.MinStock }

// Catalog is the product snapshot the terminal sells from.
type Catalog []Product

func (c Catalog) ByID(id string) (Product, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (c Catalog) ByBarcode(code string) (Product, bool) {
	for _, p := range c {
		if p.Barcode == code {
			return p, true
		}
	}
	return Product{}, false
}
