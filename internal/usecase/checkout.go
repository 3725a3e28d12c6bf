package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	domain "github.com/quangdo/shopcart-api/internal/entity"
	"github.com/quangdo/shopcart-api/internal/logging"
)

type PlaceOrderInput struct {
	UserID          string
	Email           string
	IdempotencyKey  string
	ShippingAddress domain.ShippingAddress
	Notes           string
}

// Checkout converts a cart into an order:
//
//	snapshot cart -> validate every line against live stock (all-or-nothing)
//	-> quote totals -> create order -> decrement stock per line -> clear cart
//	-> best-effort notification.
//
// The order create, stock decrements and cart clear are separate writes with
// no cross-document transaction, so each decrement is a guarded conditional
// write and a failed one rolls the sequence back: restore the decrements
// already applied (LIFO) and delete the just-created order.
type Checkout struct {
	carts    CartRepo
	products ProductRepo
	orders   OrderRepo
	idem     IdempotencyStore
	events   EventPublisher
	pricing  domain.Pricing

	now func() time.Time
}

func NewCheckout(carts CartRepo, products ProductRepo, orders OrderRepo, idem IdempotencyStore, events EventPublisher, pricing domain.Pricing) *Checkout {
	return &Checkout{
		carts:    carts,
		products: products,
		orders:   orders,
		idem:     idem,
		events:   events,
		pricing:  pricing,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *Checkout) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	// Fast path: idempotency recall. A replayed request gets the order the
	// first attempt created instead of a second order.
	if in.IdempotencyKey != "" {
		if id, ok, _ := uc.idem.Recall(ctx, in.UserID, in.IdempotencyKey); ok {
			return uc.orders.GetByID(ctx, id)
		}
		ok, err := uc.idem.TryLock(ctx, in.UserID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrDuplicate
		}
	}

	order, err := uc.place(ctx, in)

	// A failed attempt must release the lock: the key only maps to an order
	// after Remember, and the client's retry with the same key has to get a
	// fresh attempt, not ErrDuplicate until the lock TTL expires.
	if err != nil && in.IdempotencyKey != "" {
		if uerr := uc.idem.Unlock(ctx, in.UserID, in.IdempotencyKey); uerr != nil {
			logging.FromCtx(ctx).Warn("checkout: idempotency unlock failed",
				"user_id", in.UserID, "error", uerr)
		}
	}
	return order, err
}

func (uc *Checkout) place(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	log := logging.FromCtx(ctx)

	// 1. Snapshot the cart.
	cart, err := uc.carts.GetByUser(ctx, in.UserID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return nil, domain.ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	// 2. Re-validate every line against the live catalog, collecting all
	// violations. One bad line fails the whole checkout; nothing is written.
	if err := uc.validateLines(ctx, cart); err != nil {
		return nil, err
	}

	// 3. Quote. Money fields are computed once here and frozen.
	totals := uc.pricing.Quote(cart.TotalCents)

	// 4. Create the order from the cart snapshot.
	order := uc.buildOrder(cart, in, totals)
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// 5. Decrement stock per line; compensate on failure.
	if err := uc.decrementStock(ctx, order); err != nil {
		return nil, err
	}

	// 6. Clear the cart. The order stands even if this fails; the stale cart
	// is a known risk, logged, and the idempotency key blocks a resubmit.
	if err := uc.carts.Clear(ctx, in.UserID); err != nil {
		log.Warn("checkout: cart clear failed after order creation",
			"order_id", order.ID, "user_id", in.UserID, "error", err)
	}

	if in.IdempotencyKey != "" {
		_ = uc.idem.Remember(ctx, in.UserID, in.IdempotencyKey, order.ID)
	}

	// 7. Fire-and-forget notification. Never unwinds steps 4-6.
	if err := uc.events.PublishOrderCreated(ctx, OrderCreatedMsg{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Email:       order.Email,
		TotalCents:  order.TotalCents,
		Currency:    order.Currency,
		ItemCount:   len(order.Items),
	}); err != nil {
		log.Error("checkout: publish order.created failed", "order_id", order.ID, "error", err)
	}

	return order, nil
}

func (uc *Checkout) validateLines(ctx context.Context, cart *domain.Cart) error {
	var bad []domain.UnavailableLine
	for _, line := range cart.Items {
		p, err := uc.products.GetByID(ctx, line.ProductID)
		if errors.Is(err, domain.ErrProductNotFound) {
			bad = append(bad, domain.UnavailableLine{
				ProductID: line.ProductID, Name: line.Name,
				Requested: line.Quantity, Available: 0, Reason: domain.ReasonNotFound,
			})
			continue
		}
		if err != nil {
			return err
		}
		switch err := p.CanFulfill(line.Quantity); {
		case err == nil:
		case errors.Is(err, domain.ErrProductUnavailable):
			// an active product can be unavailable only by having zero stock
			reason := domain.ReasonInactive
			if p.IsActive {
				reason = domain.ReasonOutOfStock
			}
			bad = append(bad, domain.UnavailableLine{
				ProductID: p.ID, Name: p.Name,
				Requested: line.Quantity, Available: p.StockQuantity, Reason: reason,
			})
		default:
			var ise *domain.InsufficientStockError
			if errors.As(err, &ise) {
				bad = append(bad, domain.UnavailableLine{
					ProductID: p.ID, Name: p.Name,
					Requested: line.Quantity, Available: ise.Available, Reason: domain.ReasonInsufficientStock,
				})
			} else {
				return err
			}
		}
	}
	if len(bad) > 0 {
		return &domain.UnavailableItemsError{Lines: bad}
	}
	return nil
}

func (uc *Checkout) buildOrder(cart *domain.Cart, in PlaceOrderInput, totals domain.Totals) *domain.Order {
	now := uc.now()
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, domain.OrderItem{
			ProductID:      line.ProductID,
			Name:           line.Name,
			ImageURL:       line.ImageURL,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}
	return &domain.Order{
		OrderNumber:     NewOrderNumber(now),
		UserID:          in.UserID,
		Email:           in.Email,
		Items:           items,
		SubtotalCents:   totals.SubtotalCents,
		ShippingCents:   totals.ShippingCents,
		TaxCents:        totals.TaxCents,
		TotalCents:      totals.TotalCents,
		Currency:        uc.pricing.Currency,
		OrderStatus:     domain.OrderPending,
		PaymentStatus:   domain.PaymentPending,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// decrementStock applies the guarded decrement line by line. When a line
// loses the race, every decrement already applied is restored in reverse
// order and the order is deleted, then the caller sees the same
// UnavailableItems shape the validation pass produces.
func (uc *Checkout) decrementStock(ctx context.Context, order *domain.Order) error {
	log := logging.FromCtx(ctx)

	var done []domain.OrderItem
	for _, item := range order.Items {
		ok, err := uc.products.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err == nil && ok {
			done = append(done, item)
			continue
		}

		uc.compensate(ctx, log, order, done)

		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
		}
		avail := 0
		if p, perr := uc.products.GetByID(ctx, item.ProductID); perr == nil {
			avail = p.StockQuantity
		}
		reason := domain.ReasonInsufficientStock
		if avail == 0 {
			reason = domain.ReasonOutOfStock
		}
		return &domain.UnavailableItemsError{Lines: []domain.UnavailableLine{{
			ProductID: item.ProductID,
			Name:      item.Name,
			Requested: item.Quantity,
			Available: avail,
			Reason:    reason,
		}}}
	}
	return nil
}

func (uc *Checkout) compensate(ctx context.Context, log *slog.Logger, order *domain.Order, done []domain.OrderItem) {
	for i := len(done) - 1; i >= 0; i-- {
		if err := uc.products.RestoreStock(ctx, done[i].ProductID, done[i].Quantity); err != nil {
			log.Error("checkout: CRITICAL failed to restore stock during rollback",
				"order_id", order.ID, "product_id", done[i].ProductID,
				"quantity", done[i].Quantity, "error", err)
		}
	}
	if err := uc.orders.Delete(ctx, order.ID); err != nil {
		log.Error("checkout: CRITICAL failed to delete order during rollback",
			"order_id", order.ID, "error", err)
	}
}

// NewOrderNumber builds the human-readable, globally unique order number,
// e.g. ORD-20250601-1A2B3C4D. Uniqueness is backed by the uuid fragment and
// the unique index on the orders collection; numbers are not sequential.
func NewOrderNumber(now time.Time) string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), frag)
}
