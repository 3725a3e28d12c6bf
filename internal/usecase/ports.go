package usecase

import (
	"context"

	domain "github.com/quangdo/shopcart-api/internal/entity"
)

type ProductRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	SetStock(ctx context.Context, id string, quantity int) error

	// DecrementStock subtracts qty only when stock_quantity >= qty and
	// reports whether the guarded write matched. A false return means a
	// concurrent checkout won the race; callers must compensate, never clamp.
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)

	// RestoreStock adds qty back (cancellation / checkout compensation).
	RestoreStock(ctx context.Context, id string, qty int) error
}

type CartRepo interface {
	// GetByUser returns domain.ErrCartNotFound when the user has no cart yet.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// Save upserts the whole cart document keyed by user.
	Save(ctx context.Context, c *domain.Cart) error
	// Clear empties the cart document in place; missing cart is a no-op.
	Clear(ctx context.Context, userID string) error
}

type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	// Unlock releases a lock whose attempt failed before Remember, so the
	// client can retry with the same key.
	Unlock(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// StatusCache backs the public tracking endpoint with the latest order
// status. Writes are best-effort everywhere.
type StatusCache interface {
	SetStatus(ctx context.Context, orderNumber string, status string) error
	GetStatus(ctx context.Context, orderNumber string) (string, bool, error)
}

// EventPublisher fans order events out to the notification side-channel.
// Failures are the caller's to swallow: the order flow never blocks on it.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, msg OrderCreatedMsg) error
	PublishStatusChanged(ctx context.Context, msg OrderStatusMsg) error
}
