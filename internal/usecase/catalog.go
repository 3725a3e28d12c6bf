package usecase

import (
	"context"
	"time"

	domain "github.com/quangdo/shopcart-api/internal/entity"
)

// CatalogService is the thin read/admin surface over products. Stock moved
// by checkout/cancellation goes through ProductRepo directly; this service
// only covers storefront reads and admin edits.
type CatalogService struct {
	products ProductRepo
}

func NewCatalogService(products ProductRepo) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) List(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	return s.products.List(ctx, activeOnly)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

type ProductInput struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
	ImageURL    string
	IsActive    bool
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if in.PriceCents < 0 || in.Stock < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	now := time.Now().UTC()
	p := &domain.Product{
		Name:          in.Name,
		Description:   in.Description,
		PriceCents:    in.PriceCents,
		StockQuantity: in.Stock,
		ImageURL:      in.ImageURL,
		IsActive:      in.IsActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	if in.PriceCents < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.PriceCents = in.PriceCents
	p.ImageURL = in.ImageURL
	p.IsActive = in.IsActive
	p.UpdatedAt = time.Now().UTC()
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetStock is the admin absolute stock write. Relative stock movement
// belongs to checkout (decrement) and cancellation (restore).
func (s *CatalogService) SetStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := s.products.SetStock(ctx, id, quantity); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, id)
}
