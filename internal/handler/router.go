package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/farmart/livestock-api/internal/metrics"
	"github.com/farmart/livestock-api/internal/middleware"
	"github.com/farmart/livestock-api/internal/model"
)

type Handlers struct {
	Auth   *AuthHandler
	Animal *AnimalHandler
	Cart   *CartHandler
	Order  *OrderHandler
	Health *HealthHandler
}

type RouterConfig struct {
	Verifier      middleware.TokenVerifier
	Logger        *slog.Logger
	ServerMetrics *metrics.ServerMetrics
	Gatherer      prometheus.Gatherer
	// AdminListing mounts GET /api/v1/admin/orders.
	AdminListing bool
}

func NewRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Logger != nil {
		router.Use(middleware.RequestLogger(cfg.Logger))
	}
	if cfg.ServerMetrics != nil {
		router.Use(middleware.Metrics(cfg.ServerMetrics))
	}

	if h.Health != nil {
		router.GET("/healthz", h.Health.Healthz)
		router.GET("/readyz", h.Health.Readyz)
	}
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Gatherer)))
	}

	authed := middleware.AuthMiddleware(cfg.Verifier)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)

		animals := v1.Group("/animals")
		animals.GET("/:id", h.Animal.GetByID)
		animals.POST("", authed, h.Animal.Create)
		animals.PUT("/:id", authed, h.Animal.Update)

		cart := v1.Group("/cart", authed)
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:id", h.Cart.UpdateItem)
		cart.DELETE("/items/:id", h.Cart.DeleteItem)

		orders := v1.Group("/orders", authed)
		orders.POST("", h.Order.CreateOrder)
		orders.GET("", h.Order.ListOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.GET("/:id/items", h.Order.GetOrderItems)
		orders.PATCH("/:id/status", h.Order.UpdateStatus)

		v1.GET("/users/:id/orders", authed, h.Order.ListUserOrders)
		v1.GET("/order_items", authed, h.Order.ItemsForAnimal)
		v1.GET("/farmer/orders", authed, middleware.RequireRole(model.RoleFarmer), h.Order.ListFarmerOrders)

		if cfg.AdminListing {
			v1.GET("/admin/orders", authed, h.Order.ListAllOrders)
		}
	}

	return router
}
