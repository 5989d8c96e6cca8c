package cache

import (
	"context"
	"testing"
	"time"

	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInMemoryContentCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss on empty cache", func(t *testing.T) {
		c := NewInMemoryContentCache(time.Minute)
		_, ok, err := c.Get(ctx, content.KindCarousel)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemoryContentCache(time.Minute)
		require.NoError(t, c.Set(ctx, content.KindCarousel, 0, []byte(`{"slides":[]}`)))

		got, ok, err := c.Get(ctx, content.KindCarousel)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"slides":[]}`, string(got))
	})

	t.Run("returned payload is a copy", func(t *testing.T) {
		c := NewInMemoryContentCache(0)
		require.NoError(t, c.Set(ctx, content.KindAboutUs, 0, []byte("abc")))

		got, _, _ := c.Get(ctx, content.KindAboutUs)
		got[0] = 'z'

		again, _, _ := c.Get(ctx, content.KindAboutUs)
		assert.Equal(t, "abc", string(again))
	})

	t.Run("invalidate drops entry", func(t *testing.T) {
		c := NewInMemoryContentCache(time.Minute)
		require.NoError(t, c.Set(ctx, content.KindWhyChooseUs, 0, []byte("x")))
		require.NoError(t, c.Invalidate(ctx, content.KindWhyChooseUs))

		_, ok, err := c.Get(ctx, content.KindWhyChooseUs)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Size())
	})

	t.Run("set with a stale version is refused", func(t *testing.T) {
		c := NewInMemoryContentCache(time.Minute)
		before, err := c.Version(ctx, content.KindCarousel)
		require.NoError(t, err)

		require.NoError(t, c.Invalidate(ctx, content.KindCarousel))
		after, err := c.Version(ctx, content.KindCarousel)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)

		err = c.Set(ctx, content.KindCarousel, before, []byte("old"))
		assert.ErrorIs(t, err, content.ErrStaleCacheVersion)
		_, ok, err := c.Get(ctx, content.KindCarousel)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, c.Set(ctx, content.KindCarousel, after, []byte("new")))
		got, ok, err := c.Get(ctx, content.KindCarousel)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "new", string(got))
	})

	t.Run("versions are per kind", func(t *testing.T) {
		c := NewInMemoryContentCache(time.Minute)
		require.NoError(t, c.Invalidate(ctx, content.KindAboutUs))
		require.NoError(t, c.Set(ctx, content.KindCarousel, 0, []byte("x")))
	})

	t.Run("entries expire", func(t *testing.T) {
		c := NewInMemoryContentCache(time.Minute)
		now := time.Now()
		c.now = func() time.Time { return now }
		require.NoError(t, c.Set(ctx, content.KindCarousel, 0, []byte("x")))

		c.now = func() time.Time { return now.Add(2 * time.Minute) }
		_, ok, err := c.Get(ctx, content.KindCarousel)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Size())
	})
}

func TestRedisContentCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisContentCacheWithClient(client, "", time.Minute)
	assert.Equal(t, "glowetsu:content:carousel", c.key(content.KindCarousel))
	assert.Equal(t, "glowetsu:content:version:carousel", c.versionKey(content.KindCarousel))

	_, ok, err := c.Get(context.Background(), content.KindCarousel)
	assert.Error(t, err)
	assert.False(t, ok)
	_, err = c.Version(context.Background(), content.KindCarousel)
	assert.Error(t, err)
	err = c.Set(context.Background(), content.KindCarousel, 0, []byte("x"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, content.ErrStaleCacheVersion)
	assert.Error(t, c.Invalidate(context.Background(), content.KindCarousel))
}

func TestContentCacheFactory(t *testing.T) {
	t.Run("disabled redis uses in-memory", func(t *testing.T) {
		f := NewContentCacheFactory(config.RedisConfig{Enabled: false}, WithLogger(zaptest.NewLogger(t)))
		c, err := f.CreateCache()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryContentCache{}, c)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		f := NewContentCacheFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1},
			WithLogger(zaptest.NewLogger(t)))
		c, err := f.CreateCache()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryContentCache{}, c)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		f := NewContentCacheFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1},
			WithInMemoryFallback(false))
		_, err := f.CreateCache()
		assert.Error(t, err)
	})
}
