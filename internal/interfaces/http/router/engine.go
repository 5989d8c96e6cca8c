package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/glowetsu/backend/internal/infrastructure/logger"
	"github.com/glowetsu/backend/internal/infrastructure/telemetry"
	_ "github.com/glowetsu/backend/internal/interfaces/http/docs"
	"github.com/glowetsu/backend/internal/interfaces/http/handler"
	"github.com/glowetsu/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// EngineConfig holds the global middleware settings
type EngineConfig struct {
	Logger   *zap.Logger
	CORS     middleware.CORSConfig
	Security middleware.SecurityConfig
	Tracing  middleware.TracingConfig
	// Metrics is optional; nil skips request metrics
	Metrics        *telemetry.HTTPMetrics
	TrustedProxies []string
	// Middleware runs after the built-in stack
	Middleware []gin.HandlerFunc
}

// NewEngine creates a gin engine with the global middleware stack installed
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.Metrics(cfg.Metrics))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure(cfg.Security))
	engine.Use(middleware.CORS(cfg.CORS))
	engine.Use(cfg.Middleware...)

	return engine, nil
}

// RegisterHealthRoutes mounts the probes at the root, outside /api
func RegisterHealthRoutes(engine *gin.Engine, h *handler.HealthHandler) {
	engine.GET("/health", h.Health)
	engine.GET("/health/ready", h.Ready)
}

// swaggerCSP lets the Swagger UI load its inline assets
const swaggerCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"

// RegisterSwagger mounts the Swagger UI at /swagger behind the given guards
func RegisterSwagger(engine *gin.Engine, guards ...gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(guards)+2)
	handlers = append(handlers, guards...)
	handlers = append(handlers,
		func(c *gin.Context) {
			c.Header("Content-Security-Policy", swaggerCSP)
			c.Next()
		},
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
	engine.GET("/swagger/*any", handlers...)
}
