package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/infrastructure/logger"
	"github.com/contentgen/backend/internal/interfaces/http/handler"
	"github.com/contentgen/backend/internal/interfaces/http/middleware"
	"github.com/contentgen/backend/internal/interfaces/http/router"
)

// Engine builds the gin engine with the middleware chain, /health and the
// versioned API. The returned stop func releases the rate limiter.
func (a *App) Engine() (*gin.Engine, func()) {
	cfg := a.Config
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		a.Logger.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(a.Logger))
	engine.Use(logger.GinMiddleware(a.Logger))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(a.meter.Meter(meterName)))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP.CORSAllowOrigins, cfg.HTTP.CORSAllowMethods, cfg.HTTP.CORSAllowHeaders)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	stop := func() {}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		stop = limiter.Stop
		a.Logger.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	system := handler.NewSystemHandler(a.DB)
	engine.GET("/health", system.Health)

	r := router.NewRouter(engine)
	for _, g := range router.APIGroups(router.Handlers{
		System:      system,
		News:        handler.NewNewsHandler(a.News),
		Ideas:       handler.NewIdeaHandler(a.Ideas),
		Videos:      handler.NewVideoHandler(a.Videos),
		Publish:     handler.NewPublishHandler(a.Metadata, a.Publish),
		Credentials: handler.NewCredentialHandler(a.Credentials),
	}) {
		r.Register(g)
	}
	r.Setup()

	return engine, stop
}

// corsConfig overlays configured values on the development defaults
func corsConfig(origins, methods, headers []string) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(origins) > 0 {
		c.AllowOrigins = origins
	}
	if len(methods) > 0 {
		c.AllowMethods = methods
	}
	if len(headers) > 0 {
		c.AllowHeaders = headers
	}
	return c
}
