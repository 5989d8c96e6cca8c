package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const defaultContentKeyPrefix = "glowetsu:content:"

// RedisContentCache caches serialized content documents in Redis so every
// instance behind a load balancer sees the same invalidations.
type RedisContentCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisContentCache connects to Redis and verifies the connection
func NewRedisContentCache(cfg config.RedisConfig) (*RedisContentCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisContentCacheWithClient(client, "", cfg.CacheTTL), nil
}

// NewRedisContentCacheWithClient creates a cache around an existing client
func NewRedisContentCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisContentCache {
	if keyPrefix == "" {
		keyPrefix = defaultContentKeyPrefix
	}
	return &RedisContentCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisContentCache) key(kind content.Kind) string {
	return c.keyPrefix + kind.String()
}

// Get returns the cached payload. A miss is (nil, false, nil).
func (c *RedisContentCache) Get(ctx context.Context, kind content.Kind) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.key(kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", kind, err)
	}
	return payload, true, nil
}

func (c *RedisContentCache) versionKey(kind content.Kind) string {
	return c.keyPrefix + "version:" + kind.String()
}

// Version returns the invalidation count of kind. A missing counter is 0.
func (c *RedisContentCache) Version(ctx context.Context, kind content.Kind) (uint64, error) {
	v, err := c.client.Get(ctx, c.versionKey(kind)).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get version %s: %w", kind, err)
	}
	return v, nil
}

// Set stores the payload with the configured TTL. The version counter is
// watched so an Invalidate from any instance between the check and the write
// aborts the transaction.
func (c *RedisContentCache) Set(ctx context.Context, kind content.Kind, version uint64, payload []byte) error {
	versionKey := c.versionKey(kind)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return content.ErrStaleCacheVersion
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(kind), payload, c.ttl)
			return nil
		})
		return err
	}, versionKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, content.ErrStaleCacheVersion), errors.Is(err, redis.TxFailedErr):
		return content.ErrStaleCacheVersion
	default:
		return fmt.Errorf("redis set %s: %w", kind, err)
	}
}

// Invalidate drops the cached payload and advances the version in one transaction
func (c *RedisContentCache) Invalidate(ctx context.Context, kind content.Kind) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey(kind))
		pipe.Del(ctx, c.key(kind))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate %s: %w", kind, err)
	}
	return nil
}

// Ping checks the Redis connection
func (c *RedisContentCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *RedisContentCache) Close() error {
	return c.client.Close()
}

var _ content.Cache = (*RedisContentCache)(nil)
