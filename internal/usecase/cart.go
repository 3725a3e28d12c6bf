package usecase

import (
	"context"
	"errors"

	domain "github.com/quangdo/shopcart-api/internal/entity"
)

// CartService owns every cart mutation. Each write path goes
// cart -> catalog (read price/stock) -> cart (write + recompute).
type CartService struct {
	carts    CartRepo
	products ProductRepo
}

func NewCartService(carts CartRepo, products ProductRepo) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the user's cart, or an empty (unpersisted) shape when the user
// has never added anything. Carts are created lazily on first add.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := s.carts.GetByUser(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return domain.NewCart(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.AddItem(p, qty); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if qty <= 0 {
		// "set to zero" means remove; no catalog read needed
		c.RemoveItem(productID)
	} else {
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if err := c.UpdateItem(p, qty); err != nil {
			return nil, err
		}
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem is idempotent: a missing cart or missing line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	c, err := s.carts.GetByUser(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return domain.NewCart(userID), nil
	}
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}
