package queue

import (
	"context"

	"github.com/quangdo/shopcart-api/internal/logging"
	"github.com/quangdo/shopcart-api/internal/usecase"
)

// Mailer is the port to the SMTP adapter.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, msg usecase.OrderCreatedMsg) error
	SendOrderStatusUpdate(ctx context.Context, msg usecase.OrderStatusMsg) error
}

// OrderCreatedEmailHandler sends the buyer confirmation and the ops copy for
// a freshly placed order. Send failures are logged and swallowed: email is a
// side-channel and must never requeue into a retry storm or affect orders.
type OrderCreatedEmailHandler struct {
	mailer Mailer
}

func NewOrderCreatedEmailHandler(m Mailer) *OrderCreatedEmailHandler {
	return &OrderCreatedEmailHandler{mailer: m}
}

// HandleCreated is intended to be used with the JSON adapter
// (queue.JSONHandler[usecase.OrderCreatedMsg]).
func (h *OrderCreatedEmailHandler) HandleCreated(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	if err := h.mailer.SendOrderConfirmation(ctx, msg); err != nil {
		logging.FromCtx(ctx).Error("email: order confirmation failed",
			"order_number", msg.OrderNumber, "to", msg.Email, "error", err)
	}
	return nil
}

// OrderStatusEmailHandler notifies the buyer about status transitions.
type OrderStatusEmailHandler struct {
	mailer Mailer
}

func NewOrderStatusEmailHandler(m Mailer) *OrderStatusEmailHandler {
	return &OrderStatusEmailHandler{mailer: m}
}

func (h *OrderStatusEmailHandler) HandleStatus(ctx context.Context, msg usecase.OrderStatusMsg) error {
	if err := h.mailer.SendOrderStatusUpdate(ctx, msg); err != nil {
		logging.FromCtx(ctx).Error("email: status update failed",
			"order_number", msg.OrderNumber, "to", msg.Email, "error", err)
	}
	return nil
}
