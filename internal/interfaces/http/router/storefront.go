package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/infrastructure/config"
	"github.com/pantryfresh/backend/internal/infrastructure/logger"
	"github.com/pantryfresh/backend/internal/interfaces/http/dto"
	"github.com/pantryfresh/backend/internal/interfaces/http/handler"
	"github.com/pantryfresh/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Options shapes the storefront engine
type Options struct {
	ServiceName string
	Version     string
	Production  bool
	HTTP        config.HTTPConfig
	Idempotency shared.IdempotencyConfig
	// Tracing wraps requests in server spans through otelgin
	Tracing bool
}

// Deps are the services and infrastructure the routes run on. Meter,
// RateLimiter and Idempotency may be nil to switch the feature off.
type Deps struct {
	Logger       *zap.Logger
	Tokens       middleware.TokenValidator
	Orders       handler.OrderService
	Carts        handler.CartService
	Products     handler.ProductService
	Idempotency  shared.IdempotencyStore
	RateLimiter  *middleware.RateLimiter
	Meter        metric.Meter
	HealthChecks []handler.HealthCheck
}

// New builds the gin engine serving the storefront API
func New(opts Options, deps Deps) (*gin.Engine, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			return nil, err
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	if opts.Tracing {
		engine.Use(middleware.Tracing(opts.ServiceName), middleware.SpanEnricher())
	}
	engine.Use(logger.GinMiddleware(log))
	if deps.Meter != nil {
		httpMetrics, err := middleware.HTTPMetrics(deps.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(httpMetrics)
	}
	engine.Use(middleware.ProfilingLabels())
	engine.Use(middleware.SecureWithConfig(securityConfig(opts.Production)))
	engine.Use(middleware.CORSWithConfig(corsConfig(opts.HTTP)))
	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}

	engine.NoRoute(notFound)
	engine.NoMethod(methodNotAllowed)

	health := handler.NewHealthHandler(opts.ServiceName, opts.Version, log, deps.HealthChecks...)
	engine.GET("/health", health.Health)

	orders := handler.NewOrderHandler(deps.Orders, log)
	carts := handler.NewCartHandler(deps.Carts, log)
	products := handler.NewProductHandler(deps.Products, log)

	var limit []gin.HandlerFunc
	if deps.RateLimiter != nil {
		limit = append(limit, middleware.RateLimit(deps.RateLimiter))
	}
	authenticated := append([]gin.HandlerFunc{middleware.JWTAuth(deps.Tokens, log)}, limit...)
	adminOnly := middleware.RequireAdmin()

	public := NewDomainGroup("public", "").Use(limit...)
	public.GET("/health", health.Health)
	public.GET("/products", products.List)
	public.GET("/products/:id", products.Get)

	orderRoutes := NewDomainGroup("orders", "/orders").Use(authenticated...)
	orderRoutes.POST("/create", middleware.Idempotency(deps.Idempotency, opts.Idempotency, log), orders.Create)
	orderRoutes.GET("", orders.List)
	orderRoutes.GET("/summary", orders.Summary)
	orderRoutes.GET("/:orderNumber", orders.Get)
	orderRoutes.PUT("/:orderNumber/status", adminOnly, orders.UpdateStatus)
	orderRoutes.PUT("/:orderNumber/cancel", orders.Cancel)

	cartRoutes := NewDomainGroup("cart", "/cart").Use(authenticated...)
	cartRoutes.GET("", carts.Get)
	cartRoutes.DELETE("", carts.Clear)
	cartRoutes.POST("/items", carts.AddItem)
	cartRoutes.PUT("/items/:productId", carts.UpdateItem)
	cartRoutes.DELETE("/items/:productId", carts.RemoveItem)

	adminRoutes := NewDomainGroup("admin", "/admin").Use(authenticated...).Use(adminOnly)
	adminRoutes.GET("/orders", orders.ListAll)
	adminProducts := adminRoutes.Group("admin-products", "/products")
	adminProducts.POST("", products.Create)
	adminProducts.POST("/:id/restock", products.Restock)
	adminProducts.GET("/:id/movements", products.Movements)

	NewRouter(engine, WithAPIVersion("v1")).
		Register(public, orderRoutes, cartRoutes, adminRoutes).
		Setup()

	return engine, nil
}

func securityConfig(production bool) middleware.SecurityConfig {
	cfg := middleware.DefaultSecurityConfig()
	cfg.HSTSEnabled = production
	return cfg
}

func corsConfig(httpCfg config.HTTPConfig) middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	cfg.AllowOrigins = httpCfg.CORSAllowOrigins
	if len(httpCfg.CORSAllowMethods) > 0 {
		cfg.AllowMethods = httpCfg.CORSAllowMethods
	}
	if len(httpCfg.CORSAllowHeaders) > 0 {
		cfg.AllowHeaders = httpCfg.CORSAllowHeaders
	}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(&dto.ErrorInfo{
		Code:      dto.ErrCodeNotFound,
		Message:   "Route not found",
		RequestID: middleware.RequestIDFrom(c),
	}))
}

func methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(&dto.ErrorInfo{
		Code:      dto.ErrCodeBadRequest,
		Message:   "Method not allowed",
		RequestID: middleware.RequestIDFrom(c),
	}))
}
