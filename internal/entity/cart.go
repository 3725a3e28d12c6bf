package domain

import "time"

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity = 100

// CartItem is one prospective purchase line. UnitPriceCents is a snapshot of
// the catalog price at add time; it is what checkout charges.
type CartItem struct {
	ProductID      string
	Name           string
	ImageURL       string
	UnitPriceCents int64
	Quantity       int
}

// Cart is the per-user mutable collection of lines, one document per user.
// TotalCents and ItemCount are derived from Items on every mutation and are
// never trusted as independently-set state.
type Cart struct {
	ID         string
	UserID     string
	Items      []CartItem
	TotalCents int64
	ItemCount  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewCart(userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{UserID: userID, CreatedAt: now, UpdatedAt: now}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) find(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem merges qty into an existing line for the product or appends a new
// line priced at the product's current catalog price. A cart never holds two
// lines for the same product.
func (c *Cart) AddItem(p *Product, qty int) error {
	if qty <= 0 || qty > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	want := qty
	if line := c.find(p.ID); line != nil {
		want = line.Quantity + qty
		if want > MaxLineQuantity {
			return ErrInvalidQuantity
		}
	}
	if err := p.CanFulfill(want); err != nil {
		return err
	}
	if line := c.find(p.ID); line != nil {
		line.Quantity = want
	} else {
		c.Items = append(c.Items, CartItem{
			ProductID:      p.ID,
			Name:           p.Name,
			ImageURL:       p.ImageURL,
			UnitPriceCents: p.PriceCents,
			Quantity:       qty,
		})
	}
	c.recompute()
	return nil
}

// UpdateItem sets the line quantity. qty <= 0 means "remove this line"
// (a policy decision, not an error). The price snapshot is kept as-is.
func (c *Cart) UpdateItem(p *Product, qty int) error {
	if qty <= 0 {
		c.RemoveItem(p.ID)
		return nil
	}
	if qty > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	line := c.find(p.ID)
	if line == nil {
		return ErrProductNotFound
	}
	if err := p.CanFulfill(qty); err != nil {
		return err
	}
	line.Quantity = qty
	c.recompute()
	return nil
}

// RemoveItem drops the line for productID. Removing a line that isn't there
// is a no-op: the cart behaves as a set of items, not an indexed list.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	c.recompute()
}

// Clear empties the cart but keeps the document alive.
func (c *Cart) Clear() {
	c.Items = nil
	c.recompute()
}

func (c *Cart) recompute() {
	var total int64
	var count int
	for _, it := range c.Items {
		total += it.UnitPriceCents * int64(it.Quantity)
		count += it.Quantity
	}
	c.TotalCents = total
	c.ItemCount = count
	c.UpdatedAt = time.Now().UTC()
}
