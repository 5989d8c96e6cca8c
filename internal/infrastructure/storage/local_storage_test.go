package storage

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glowetsu/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLocalObjectStorage(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalObjectStorage(dir, "uploads/", zaptest.NewLogger(t))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("upload writes file and returns url path", func(t *testing.T) {
		url, err := storage.Upload(ctx, "content/about_us/a.jpg", strings.NewReader("jpeg"), 4, "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/content/about_us/a.jpg", url)

		data, err := os.ReadFile(filepath.Join(dir, "content", "about_us", "a.jpg"))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", string(data))

		exists, err := storage.ObjectExists(ctx, "content/about_us/a.jpg")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("traversal is rejected", func(t *testing.T) {
		_, err := storage.Upload(ctx, "../escape.jpg", strings.NewReader("x"), 1, "image/jpeg")
		require.Error(t, err)
		_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape.jpg"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		_, err := storage.Upload(ctx, "", strings.NewReader("x"), 1, "image/jpeg")
		require.Error(t, err)
	})

	t.Run("delete missing file is fine", func(t *testing.T) {
		require.NoError(t, storage.DeleteObject(ctx, "nope.jpg"))
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, storage.Ping(ctx))
	})
}

func TestStubObjectStorage(t *testing.T) {
	storage := NewStubObjectStorage("")
	url, err := storage.Upload(context.Background(), "content/carousel/a.png", strings.NewReader("x"), 1, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/content/carousel/a.png", url)

	_, err = storage.Upload(context.Background(), "", strings.NewReader("x"), 1, "image/png")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	t.Run("local", func(t *testing.T) {
		b, err := New(ctx, &config.StorageConfig{Driver: DriverLocal, LocalDir: t.TempDir(), LocalURLPath: "/uploads"}, logger)
		require.NoError(t, err)
		assert.IsType(t, &LocalObjectStorage{}, b)
	})

	t.Run("stub", func(t *testing.T) {
		b, err := New(ctx, &config.StorageConfig{Driver: DriverStub, PublicBaseURL: "http://cdn.test"}, logger)
		require.NoError(t, err)
		assert.Equal(t, "http://cdn.test/x.png", b.PublicURL("x.png"))
	})

	t.Run("s3 creates bucket", func(t *testing.T) {
		fake := newFakeS3()
		srv := httptest.NewServer(fake)
		defer srv.Close()

		b, err := New(ctx, &config.StorageConfig{
			Driver:       DriverS3,
			Bucket:       "media",
			AccessKey:    "k",
			SecretKey:    "s",
			Endpoint:     srv.URL,
			UsePathStyle: true,
		}, logger)
		require.NoError(t, err)
		assert.IsType(t, &S3ObjectStorage{}, b)
		assert.True(t, fake.buckets["media"])
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := New(ctx, &config.StorageConfig{Driver: "ftp"}, logger)
		require.Error(t, err)
	})
}
