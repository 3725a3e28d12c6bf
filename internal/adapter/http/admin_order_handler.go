package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/quangdo/shopcart-api/internal/entity"
	"github.com/quangdo/shopcart-api/internal/usecase"
)

type AdminOrderHandler struct {
	orders *usecase.OrderService
}

func NewAdminOrderHandler(orders *usecase.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders}
}

type adminStatusReq struct {
	Status            string     `json:"status" binding:"required"`
	TrackingNumber    string     `json:"trackingNumber"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	AdminNotes        string     `json:"adminNotes"`
	Force             bool       `json:"force"`
}

// GET /v1/admin/orders
func (h *AdminOrderHandler) ListOrders(c *gin.Context) {
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, http.StatusOK, toOrderViews(orders))
}

// PUT /v1/admin/orders/:id/status
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	var req adminStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status is required", nil)
		return
	}

	status := domain.OrderStatus(req.Status)
	if !domain.ValidOrderStatus(status) {
		respondError(c, http.StatusBadRequest, "unknown order status: "+req.Status, nil)
		return
	}

	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	order, err := h.orders.AdminUpdateStatus(ctx, c.Param("id"), usecase.AdminStatusUpdate{
		Status:            status,
		TrackingNumber:    req.TrackingNumber,
		EstimatedDelivery: req.EstimatedDelivery,
		AdminNotes:        req.AdminNotes,
		Force:             req.Force,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "order status updated", toOrderView(order))
}

// DELETE /v1/admin/orders/:id
func (h *AdminOrderHandler) DeleteOrder(c *gin.Context) {
	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	if err := h.orders.AdminDelete(ctx, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "order deleted", nil)
}
