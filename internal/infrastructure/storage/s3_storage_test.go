package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/glowetsu/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ============================================================================
// Unit Tests (no external dependencies)
// ============================================================================

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			AccessKey: "test-key",
			SecretKey: "test-secret",
		}
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("access key without secret returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:    "test-bucket",
			AccessKey: "test-key",
		}
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("no credentials uses default chain", func(t *testing.T) {
		cfg := &config.StorageConfig{Bucket: "test-bucket", Region: "eu-west-1"}
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://test-bucket.s3.eu-west-1.amazonaws.com/a.jpg", storage.PublicURL("a.jpg"))
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:       "test-bucket",
			AccessKey:    "test-key",
			SecretKey:    "test-secret",
			Region:       "us-east-1",
			Endpoint:     "http://localhost:9000",
			UsePathStyle: true,
		}
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		require.NotNil(t, storage)
		assert.Equal(t, "test-bucket", storage.Bucket())
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		useSSL   bool
		want     string
	}{
		{"empty means AWS", "", false, ""},
		{"adds http prefix when missing and no SSL", "localhost:9000", false, "http://localhost:9000"},
		{"adds https prefix when missing and SSL enabled", "localhost:9000", true, "https://localhost:9000"},
		{"keeps scheme and trims slash", "https://r2.example.com/", false, "https://r2.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeEndpoint(tt.endpoint, tt.useSSL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestS3ObjectStorage_PublicURL(t *testing.T) {
	base := config.StorageConfig{
		Bucket:    "media",
		AccessKey: "test-key",
		SecretKey: "test-secret",
		Endpoint:  "http://localhost:9000",
	}

	t.Run("path style", func(t *testing.T) {
		cfg := base
		cfg.UsePathStyle = true
		storage, err := NewS3ObjectStorage(&cfg)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/media/content/carousel/a.jpg", storage.PublicURL("content/carousel/a.jpg"))
	})

	t.Run("virtual host style", func(t *testing.T) {
		cfg := base
		storage, err := NewS3ObjectStorage(&cfg)
		require.NoError(t, err)
		assert.Equal(t, "http://media.localhost:9000/a.jpg", storage.PublicURL("a.jpg"))
	})

	t.Run("public base url and key prefix", func(t *testing.T) {
		cfg := base
		cfg.PublicBaseURL = "https://cdn.example.com/"
		cfg.KeyPrefix = "/site/"
		storage, err := NewS3ObjectStorage(&cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/site/a.jpg", storage.PublicURL("a.jpg"))
	})
}

func TestS3ObjectStorage_KeyValidation(t *testing.T) {
	cfg := &config.StorageConfig{
		Bucket:    "test-bucket",
		AccessKey: "test-key",
		SecretKey: "test-secret",
		Endpoint:  "http://localhost:9000",
	}
	storage, err := NewS3ObjectStorage(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("upload", func(t *testing.T) {
		url, err := storage.Upload(ctx, "", strings.NewReader("x"), 1, "image/png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
		assert.Empty(t, url)
	})

	t.Run("delete", func(t *testing.T) {
		err := storage.DeleteObject(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := storage.ObjectExists(ctx, "")
		require.Error(t, err)
		assert.False(t, exists)
	})
}

// ============================================================================
// Fake S3 endpoint
// ============================================================================

type fakeS3 struct {
	mu       sync.Mutex
	buckets  map[string]bool
	objects  map[string][]byte
	types    map[string]string
	failPuts bool
	requests []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		buckets: make(map[string]bool),
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeS3) setFailPuts(fail bool) {
	f.mu.Lock()
	f.failPuts = fail
	f.mu.Unlock()
}

// ServeHTTP handles path-style requests: /bucket and /bucket/key
func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]

	if len(parts) == 1 || parts[1] == "" {
		switch r.Method {
		case http.MethodHead:
			if !f.buckets[bucket] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		case http.MethodPut:
			f.buckets[bucket] = true
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	key := parts[1]
	switch r.Method {
	case http.MethodPut:
		if f.failPuts {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `<Error><Code>InternalError</Code><Message>boom</Message></Error>`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeS3Storage(t *testing.T) (*S3ObjectStorage, *fakeS3) {
	t.Helper()
	fake := newFakeS3()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	storage, err := NewS3ObjectStorage(&config.StorageConfig{
		Bucket:       "media",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Region:       "us-east-1",
		Endpoint:     srv.URL,
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return storage, fake
}

func TestS3ObjectStorage_EnsureBucket(t *testing.T) {
	storage, fake := newFakeS3Storage(t)
	ctx := context.Background()

	require.NoError(t, storage.EnsureBucket(ctx))
	assert.True(t, fake.buckets["media"])
	assert.Contains(t, fake.requests, "PUT /media")

	// Existing bucket is left alone
	fake.requests = nil
	require.NoError(t, storage.EnsureBucket(ctx))
	assert.Equal(t, []string{"HEAD /media"}, fake.requests)
	require.NoError(t, storage.Ping(ctx))
}

func TestS3ObjectStorage_Upload(t *testing.T) {
	storage, fake := newFakeS3Storage(t)
	ctx := context.Background()

	t.Run("stores object and returns public URL", func(t *testing.T) {
		// io.MultiReader is not seekable
		body := io.MultiReader(strings.NewReader("png-"), strings.NewReader("bytes"))
		url, err := storage.Upload(ctx, "content/carousel/20260101-a.png", body, -1, "image/png")
		require.NoError(t, err)

		assert.True(t, strings.HasSuffix(url, "/media/content/carousel/20260101-a.png"))
		assert.Equal(t, "png-bytes", string(fake.objects["content/carousel/20260101-a.png"]))
		assert.Equal(t, "image/png", fake.types["content/carousel/20260101-a.png"])

		exists, err := storage.ObjectExists(ctx, "content/carousel/20260101-a.png")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("delete then exists is false", func(t *testing.T) {
		_, err := storage.Upload(ctx, "tmp.jpg", strings.NewReader("x"), 1, "image/jpeg")
		require.NoError(t, err)
		require.NoError(t, storage.DeleteObject(ctx, "tmp.jpg"))

		exists, err := storage.ObjectExists(ctx, "tmp.jpg")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("server error is returned", func(t *testing.T) {
		fake.setFailPuts(true)
		defer fake.setFailPuts(false)

		url, err := storage.Upload(ctx, "broken.jpg", strings.NewReader("x"), 1, "image/jpeg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
		assert.Empty(t, url)
	})
}
