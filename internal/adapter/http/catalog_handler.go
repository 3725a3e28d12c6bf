package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quangdo/shopcart-api/internal/usecase"
)

type CatalogHandler struct {
	catalog *usecase.CatalogService
}

func NewCatalogHandler(catalog *usecase.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type productReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents" binding:"required,gte=0"`
	Stock       int    `json:"stock" binding:"gte=0"`
	ImageURL    string `json:"imageUrl"`
	IsActive    *bool  `json:"isActive"`
}

type setStockReq struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GET /v1/products
// ?all=true includes inactive products (admin tokens use the admin listing
// anyway, this just keeps the storefront default clean).
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	activeOnly := c.Query("all") != "true"
	products, err := h.catalog.List(ctx, activeOnly)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, http.StatusOK, toProductViews(products))
}

// GET /v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	p, err := h.catalog.Get(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, http.StatusOK, toProductView(p))
}

// POST /v1/admin/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name and a non-negative priceCents are required", nil)
		return
	}

	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	p, err := h.catalog.Create(ctx, toProductInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "product created", toProductView(p))
}

// PUT /v1/admin/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name and a non-negative priceCents are required", nil)
		return
	}

	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	p, err := h.catalog.Update(ctx, c.Param("id"), toProductInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "product updated", toProductView(p))
}

// PUT /v1/admin/products/:id/stock
func (h *CatalogHandler) SetStock(c *gin.Context) {
	var req setStockReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondError(c, http.StatusBadRequest, "quantity is required", nil)
		return
	}

	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	p, err := h.catalog.SetStock(ctx, c.Param("id"), *req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "stock updated", toProductView(p))
}

func toProductInput(req productReq) usecase.ProductInput {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return usecase.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    active,
	}
}
