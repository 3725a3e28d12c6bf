package domain

import "time"

// Product is the catalog record; the source of truth for availability and
// unit price at the time of any cart or checkout operation. Prices are
// integer cents. Stock is mutated by admin edits and by the checkout
// decrement / cancellation restore, never deleted by the order flow.
type Product struct {
	ID            string
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int
	ImageURL      string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// CanFulfill reports whether qty units can be sold right now.
// Inactive or out-of-stock products are invisible to cart/checkout.
func (p *Product) CanFulfill(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if !p.IsActive || !p.InStock() {
		return ErrProductUnavailable
	}
	if p.StockQuantity < qty {
		return &InsufficientStockError{ProductID: p.ID, Requested: qty, Available: p.StockQuantity}
	}
	return nil
}
