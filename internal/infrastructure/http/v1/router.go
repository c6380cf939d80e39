// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"productdesk/internal/domain/catalogs/product"
	"productdesk/internal/infrastructure/http/v1/handlers"
	"productdesk/internal/infrastructure/http/v1/middleware"
	"productdesk/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator resolves bearer tokens into principals
	JWTValidator middleware.JWTValidator

	// Products runs the catalog operations
	Products *product.Service

	// Store is pinged by the readiness probe
	Store handlers.Pinger

	// StoreBackend names the store driver in readiness output
	StoreBackend string

	// Metrics is optional; nil disables /metrics and request metrics
	Metrics *middleware.Metrics
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Store, cfg.StoreBackend)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.OptionalAuth(cfg.JWTValidator))
	{
		registerProductRoutes(v1.Group("/products"), handlers.NewProductHandler(handlers.NewBaseHandler(), cfg.Products))
	}

	return router
}

// registerProductRoutes wires the catalog endpoints. Authorization happens in
// the service, after input validation, so no per-route permission middleware.
func registerProductRoutes(group *gin.RouterGroup, h *handlers.ProductHandler) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Replace)
	group.PATCH("/:id", h.Patch)
	group.DELETE("/:id", h.Delete)
	group.GET("/:id/history", h.History)
}
