package router

import (
	"github.com/foodgram/backend/internal/infrastructure/logger"
	"github.com/foodgram/backend/internal/infrastructure/telemetry"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineConfig selects the global middleware chain
type EngineConfig struct {
	Logger         *zap.Logger
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	TrustedProxies []string
	Tracing        middleware.TracingConfig
	MeterProvider  *telemetry.MeterProvider // nil disables HTTP metrics
	RateLimiter    *middleware.RateLimiter  // nil disables the global limit
}

// NewEngine builds a gin engine with the global middleware applied in order:
// request id, panic recovery, tracing, access log, security headers, CORS,
// body limit, metrics and rate limiting.
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing), middleware.SpanEnricher())
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	if cfg.MeterProvider != nil {
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: cfg.MeterProvider,
			Logger:        log,
		}))
	}
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	return engine
}
