package usecase

import (
	"context"
	"time"

	domain "github.com/quangdo/shopcart-api/internal/entity"
	"github.com/quangdo/shopcart-api/internal/logging"
)

// OrderService reads orders and drives the status lifecycle. All status
// writes funnel through domain.Order.Transition; this service adds ownership
// checks, the compensating stock restore on cancellation, and the
// best-effort cache/event side effects.
type OrderService struct {
	orders   OrderRepo
	products ProductRepo
	cache    StatusCache
	events   EventPublisher

	now func() time.Time
}

func NewOrderService(orders OrderRepo, products ProductRepo, cache StatusCache, events EventPublisher) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		cache:    cache,
		events:   events,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *OrderService) GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// TrackingInfo is the reduced public view served by the tracking endpoint.
type TrackingInfo struct {
	OrderNumber       string     `json:"orderNumber"`
	OrderStatus       string     `json:"orderStatus"`
	TrackingNumber    string     `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	DeliveredAt       *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// Track is public (no ownership check) and deliberately field-reduced.
func (s *OrderService) Track(ctx context.Context, orderNumber string) (*TrackingInfo, error) {
	o, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetStatus(ctx, o.OrderNumber, string(o.OrderStatus))
	return &TrackingInfo{
		OrderNumber:       o.OrderNumber,
		OrderStatus:       string(o.OrderStatus),
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		DeliveredAt:       o.DeliveredAt,
		CreatedAt:         o.CreatedAt,
	}, nil
}

// Cancel is the owner-initiated cancellation: pending/confirmed only, and it
// restores the ordered quantities back into the catalog.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID, reason string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if !o.CancellableByUser() {
		return nil, &domain.InvalidTransitionError{From: o.OrderStatus, To: domain.OrderCancelled}
	}
	return s.cancel(ctx, o, domain.TransitionOptions{CancelReason: reason, Now: s.now()})
}

type AdminStatusUpdate struct {
	Status            domain.OrderStatus
	TrackingNumber    string
	EstimatedDelivery *time.Time
	AdminNotes        string
	Force             bool
}

// AdminUpdateStatus is the single admin entry point for every transition,
// tracking-number assignment included. Force bypasses the lifecycle table
// and is logged.
func (s *OrderService) AdminUpdateStatus(ctx context.Context, orderID string, upd AdminStatusUpdate) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	opts := domain.TransitionOptions{
		TrackingNumber:    upd.TrackingNumber,
		EstimatedDelivery: upd.EstimatedDelivery,
		AdminNotes:        upd.AdminNotes,
		Force:             upd.Force,
		Now:               s.now(),
	}
	if upd.Force {
		logging.FromCtx(ctx).Warn("order: forced status transition",
			"order_id", o.ID, "from", o.OrderStatus, "to", upd.Status)
	}

	if upd.Status == domain.OrderCancelled {
		opts.CancelReason = upd.AdminNotes
		return s.cancel(ctx, o, opts)
	}

	if err := o.Transition(upd.Status, opts); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.afterTransition(ctx, o)
	return o, nil
}

// AdminDelete hard-deletes an order, permitted only while still pending.
func (s *OrderService) AdminDelete(ctx context.Context, orderID string) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.Deletable() {
		return domain.ErrOrderNotDeletable
	}
	return s.orders.Delete(ctx, orderID)
}

// ApplyPaymentStatus applies a payment-provider status update (Kafka feed).
func (s *OrderService) ApplyPaymentStatus(ctx context.Context, orderNumber string, status domain.PaymentStatus) error {
	if !domain.ValidPaymentStatus(status) {
		return domain.ErrInvalidPaymentStatus
	}
	o, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return err
	}
	return s.orders.UpdatePaymentStatus(ctx, o.ID, status)
}

func (s *OrderService) cancel(ctx context.Context, o *domain.Order, opts domain.TransitionOptions) (*domain.Order, error) {
	log := logging.FromCtx(ctx)

	if err := o.Transition(domain.OrderCancelled, opts); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}

	// Compensating stock restore: the one undo the order flow guarantees.
	// A failed line is logged and the rest still restore.
	for _, item := range o.Items {
		if err := s.products.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Error("order: CRITICAL stock restore failed on cancel",
				"order_id", o.ID, "product_id", item.ProductID,
				"quantity", item.Quantity, "error", err)
		}
	}

	s.afterTransition(ctx, o)
	return o, nil
}

func (s *OrderService) afterTransition(ctx context.Context, o *domain.Order) {
	log := logging.FromCtx(ctx)
	if err := s.cache.SetStatus(ctx, o.OrderNumber, string(o.OrderStatus)); err != nil {
		log.Warn("order: status cache write failed", "order_number", o.OrderNumber, "error", err)
	}
	if err := s.events.PublishStatusChanged(ctx, OrderStatusMsg{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		Email:          o.Email,
		Status:         string(o.OrderStatus),
		TrackingNumber: o.TrackingNumber,
		CancelReason:   o.CancelReason,
	}); err != nil {
		log.Error("order: publish order.status failed", "order_id", o.ID, "error", err)
	}
}
