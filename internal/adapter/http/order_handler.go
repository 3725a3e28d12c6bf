package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quangdo/shopcart-api/internal/adapter/http/middleware"
	domain "github.com/quangdo/shopcart-api/internal/entity"
	"github.com/quangdo/shopcart-api/internal/usecase"
)

type OrderHandler struct {
	checkout *usecase.Checkout
	orders   *usecase.OrderService
}

func NewOrderHandler(checkout *usecase.Checkout, orders *usecase.OrderService) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

type placeOrderReq struct {
	ShippingAddress struct {
		FullName   string `json:"fullName" binding:"required"`
		Line1      string `json:"line1" binding:"required"`
		Line2      string `json:"line2"`
		City       string `json:"city" binding:"required"`
		State      string `json:"state"`
		PostalCode string `json:"postalCode" binding:"required"`
		Country    string `json:"country" binding:"required"`
		Phone      string `json:"phone"`
	} `json:"shippingAddress" binding:"required"`
	Notes string `json:"notes"`
}

type cancelOrderReq struct {
	Reason string `json:"reason"`
}

// PlaceOrder converts the caller's cart into an order.
// Duplicate submits are deduplicated by the X-Idempotency-Key header.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "a complete shipping address is required", nil)
		return
	}

	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	order, err := h.checkout.PlaceOrder(ctx, usecase.PlaceOrderInput{
		UserID:         middleware.UserID(c),
		Email:          middleware.Email(c),
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"),
		ShippingAddress: domain.ShippingAddress{
			FullName:   req.ShippingAddress.FullName,
			Line1:      req.ShippingAddress.Line1,
			Line2:      req.ShippingAddress.Line2,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
			Phone:      req.ShippingAddress.Phone,
		},
		Notes: req.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "order placed", toOrderView(order))
}

// GET /v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	orders, err := h.orders.ListForUser(ctx, middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, http.StatusOK, toOrderViews(orders))
}

// GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	order, err := h.orders.GetForUser(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, http.StatusOK, toOrderView(order))
}

// PUT /v1/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var req cancelOrderReq
	_ = c.ShouldBindJSON(&req) // reason is optional

	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	order, err := h.orders.Cancel(ctx, middleware.UserID(c), c.Param("id"), req.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "order cancelled", toOrderView(order))
}

// Track serves the public tracking view: no auth, reduced fields.
func (h *OrderHandler) Track(c *gin.Context) {
	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	info, err := h.orders.Track(ctx, c.Param("orderNumber"))
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, http.StatusOK, info)
}
