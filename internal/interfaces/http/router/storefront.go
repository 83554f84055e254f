package router

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers mounted by NewEngine
type Handlers struct {
	Health  *handler.HealthHandler
	Product *handler.ProductHandler
	Rating  *handler.RatingHandler
	Order   *handler.OrderHandler
	Auth    *handler.AuthHandler
	Admin   *handler.AdminHandler
}

// Deps holds everything NewEngine needs to assemble the HTTP surface.
// Meters may be nil, in which case HTTP metrics are not recorded.
type Deps struct {
	Config    *config.Config
	Logger    *zap.Logger
	Tokens    middleware.TokenValidator
	Blacklist auth.TokenBlacklist
	Meters    *telemetry.MeterProvider
	Handlers  Handlers
}

// NewEngine builds the gin engine with the full middleware stack and all
// storefront routes. ctx bounds the background cleanup of the rate limiters.
//
// Middleware order:
//  1. Recovery, so panics anywhere below become 500 envelopes
//  2. RequestID, before anything that logs or traces
//  3. Tracing and span attributes, then profiling labels (if enabled)
//  4. Request logging and HTTP metrics
//  5. Security headers, CORS and body limit
//  6. Global rate limit (if enabled)
func NewEngine(ctx context.Context, deps Deps) (*gin.Engine, error) {
	if deps.Config == nil {
		return nil, errors.New("router: config is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("router: token validator is required")
	}
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = cfg.Telemetry.ProfilingEnabled
	engine.Use(middleware.ProfilingWithConfig(profiling))
	engine.Use(logger.GinMiddleware(log))

	if deps.Meters != nil {
		httpMetrics, err := middleware.HTTPMetrics(deps.Meters)
		if err != nil {
			return nil, err
		}
		engine.Use(httpMetrics)
	}

	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiter.StartCleanup(ctx)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	h := deps.Handlers

	// Health check lives outside API versioning
	if h.Health != nil {
		engine.GET("/health", h.Health.Check)
	}

	authenticated := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		Validator:      deps.Tokens,
		TokenBlacklist: deps.Blacklist,
		Logger:         log,
	})
	shopper := middleware.RequireRole(log, identity.RoleCustomer.String(), identity.RoleAdmin.String())

	r := NewRouter(engine, WithAPIVersion("v1"))

	if h.Product != nil {
		catalogRoutes := NewDomainGroup("catalog", "/products")
		catalogRoutes.GET("", h.Product.List)
		catalogRoutes.GET("/:id", h.Product.Get)
		r.Register(catalogRoutes)
	}

	if h.Rating != nil {
		ratingRoutes := NewDomainGroup("rating", "/ratings")
		ratingRoutes.GET("/:productId", h.Rating.List)
		ratingRoutes.Group("rating-write", "").
			Use(authenticated, shopper).
			POST("", h.Rating.Record)
		r.Register(ratingRoutes)
	}

	if h.Order != nil {
		orderRoutes := NewDomainGroup("order", "/orders").Use(authenticated, shopper)
		orderRoutes.POST("", h.Order.PlaceOrder)
		orderRoutes.GET("/history", h.Order.History)
		r.Register(orderRoutes)
	}

	if h.Auth != nil {
		authRoutes := NewDomainGroup("auth", "/auth")
		login := []gin.HandlerFunc{h.Auth.Login}
		if cfg.HTTP.AuthRateLimitEnabled {
			authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
			authLimiter.StartCleanup(ctx)
			login = append([]gin.HandlerFunc{middleware.RateLimit(authLimiter)}, login...)
		}
		authRoutes.POST("/login", login...)
		authRoutes.POST("/logout", authenticated, h.Auth.Logout)
		r.Register(authRoutes)
	}

	if h.Admin != nil {
		adminRoutes := NewDomainGroup("admin", "/admin").
			Use(authenticated, middleware.RequireRole(log, identity.RoleAdmin.String()))
		adminRoutes.GET("/stats", h.Admin.Stats)
		r.Register(adminRoutes)
	}

	for _, rt := range r.Setup() {
		log.Debug("Route mounted",
			zap.String("group", rt.Group),
			zap.String("method", rt.Method),
			zap.String("path", rt.Path),
		)
	}

	return engine, nil
}
