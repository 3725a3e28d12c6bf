package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quangdo/shopcart-api/internal/adapter/http/middleware"
	"github.com/quangdo/shopcart-api/internal/logging"
)

type Handlers struct {
	Catalog *CatalogHandler
	Cart    *CartHandler
	Orders  *OrderHandler
	Admin   *AdminOrderHandler
	Token   *TokenHandler
}

func NewRouter(h Handlers, authz *middleware.Authz, l *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware(), middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		logging.From(c).Info("health check")
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", h.Token.IssueToken)

	v1 := r.Group("/v1")
	{
		v1.GET("/products", authz.Require("catalog.read"), h.Catalog.ListProducts)
		v1.GET("/products/:id", authz.Require("catalog.read"), h.Catalog.GetProduct)

		v1.GET("/cart", authz.Require("cart.read"), h.Cart.GetCart)
		v1.POST("/cart/add", authz.Require("cart.write"), h.Cart.AddItem)
		v1.PUT("/cart/update/:productId", authz.Require("cart.write"), h.Cart.UpdateItem)
		v1.DELETE("/cart/remove/:productId", authz.Require("cart.write"), h.Cart.RemoveItem)
		v1.DELETE("/cart/clear", authz.Require("cart.write"), h.Cart.ClearCart)

		v1.POST("/orders", authz.Require("orders.write"), h.Orders.PlaceOrder)
		v1.GET("/orders", authz.Require("orders.read"), h.Orders.ListOrders)
		v1.GET("/orders/:id", authz.Require("orders.read"), h.Orders.GetOrder)
		v1.PUT("/orders/:id/cancel", authz.Require("orders.write"), h.Orders.CancelOrder)

		// tracking lookup is unauthenticated
		v1.GET("/orders/tracking/:orderNumber", h.Orders.Track)
	}

	admin := r.Group("/v1/admin", authz.Require("orders.admin"))
	{
		admin.GET("/orders", h.Admin.ListOrders)
		admin.PUT("/orders/:id/status", h.Admin.UpdateStatus)
		admin.DELETE("/orders/:id", h.Admin.DeleteOrder)

		admin.POST("/products", authz.Require("catalog.write"), h.Catalog.CreateProduct)
		admin.PUT("/products/:id", authz.Require("catalog.write"), h.Catalog.UpdateProduct)
		admin.PUT("/products/:id/stock", authz.Require("catalog.write"), h.Catalog.SetStock)
	}

	return r
}
