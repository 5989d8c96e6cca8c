package cache

import (
	"fmt"

	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ContentCacheFactory picks the content cache backend from configuration
type ContentCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ContentCacheFactoryOption is a functional option for configuring the factory
type ContentCacheFactoryOption func(*ContentCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ContentCacheFactoryOption {
	return func(f *ContentCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) ContentCacheFactoryOption {
	return func(f *ContentCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewContentCacheFactory creates a new factory
func NewContentCacheFactory(cfg config.RedisConfig, opts ...ContentCacheFactoryOption) *ContentCacheFactory {
	f := &ContentCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise an in-memory cache.
func (f *ContentCacheFactory) CreateCache() (content.Cache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory content cache")
		return NewInMemoryContentCache(f.redisConfig.CacheTTL), nil
	}

	c, err := NewRedisContentCache(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis content cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for content cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory content cache. "+
		"Other instances will not see invalidations until their entries expire.",
		zap.Error(err),
	)
	return NewInMemoryContentCache(f.redisConfig.CacheTTL), nil
}
