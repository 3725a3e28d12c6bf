package kafka

import (
	"context"
	"errors"
	"strings"

	domain "github.com/quangdo/shopcart-api/internal/entity"
	"github.com/quangdo/shopcart-api/internal/logging"
	"github.com/quangdo/shopcart-api/internal/usecase"
)

// PaymentStatusChangedHandler applies payment-provider events to orders.
// The provider keys events by order number and shouts statuses in caps.
type PaymentStatusChangedHandler struct {
	Orders usecase.OrderRepo
	Cache  usecase.StatusCache // optional
}

func NewPaymentStatusChangedHandler(orders usecase.OrderRepo, cache usecase.StatusCache) *PaymentStatusChangedHandler {
	return &PaymentStatusChangedHandler{Orders: orders, Cache: cache}
}

func (h *PaymentStatusChangedHandler) Handle(ctx context.Context, ev usecase.PaymentStatusChangedMsg) error {
	status := domain.PaymentStatus(strings.ToLower(ev.Status))
	if !domain.ValidPaymentStatus(status) {
		// poison payload; ack it, don't spin on it
		logging.FromCtx(ctx).Warn("kafka: unknown payment status",
			"order_number", ev.OrderNumber, "status", ev.Status)
		return nil
	}

	o, err := h.Orders.GetByNumber(ctx, ev.OrderNumber)
	if errors.Is(err, domain.ErrOrderNotFound) {
		logging.FromCtx(ctx).Warn("kafka: payment event for unknown order",
			"order_number", ev.OrderNumber)
		return nil
	}
	if err != nil {
		return err
	}

	if err := h.Orders.UpdatePaymentStatus(ctx, o.ID, status); err != nil {
		return err
	}

	// Cache best-effort
	if h.Cache != nil {
		_ = h.Cache.SetStatus(ctx, o.OrderNumber, string(o.OrderStatus))
	}
	return nil
}
