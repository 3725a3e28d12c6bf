package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quangdo/shopcart-api/internal/adapter/http/middleware"
	"github.com/quangdo/shopcart-api/internal/usecase"
)

type CartHandler struct {
	carts *usecase.CartService
}

func NewCartHandler(carts *usecase.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type addItemReq struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type updateItemReq struct {
	// pointer so quantity 0 (remove) binds
	Quantity *int `json:"quantity" binding:"required"`
}

// GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	cart, err := h.carts.Get(ctx, middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, http.StatusOK, toCartView(cart))
}

// POST /v1/cart/add
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId and a positive quantity are required", nil)
		return
	}

	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	cart, err := h.carts.AddItem(ctx, middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "item added to cart", toCartView(cart))
}

// PUT /v1/cart/update/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondError(c, http.StatusBadRequest, "quantity is required", nil)
		return
	}

	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	cart, err := h.carts.UpdateItem(ctx, middleware.UserID(c), c.Param("productId"), *req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "cart updated", toCartView(cart))
}

// DELETE /v1/cart/remove/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	cart, err := h.carts.RemoveItem(ctx, middleware.UserID(c), c.Param("productId"))
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "item removed from cart", toCartView(cart))
}

// DELETE /v1/cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	if err := h.carts.Clear(ctx, middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "cart cleared", nil)
}

func reqCtx(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}
