package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	c, err := New(Config{BaseURL: server.URL + "/api", Token: "tok", Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"absolute", "http://localhost:8080/api", false},
		{"trailing slash", "http://localhost:8080/api/", false},
		{"empty", "", true},
		{"relative", "/api", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClient_Get(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/content/carousel", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"slides":[{"id":"s1","title":"Hello"}]}`))
	})

	var out struct {
		Slides []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"slides"`
	}
	require.NoError(t, c.Get(context.Background(), "/content/carousel", &out))
	require.Len(t, out.Slides, 1)
	assert.Equal(t, "Hello", out.Slides[0].Title)
}

func TestClient_Put(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"slides":[]}`, string(body))
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, c.Put(context.Background(), "content/carousel", map[string]any{"slides": []any{}}, &out))
	assert.Equal(t, "ok", out.Message)
}

func TestClient_UploadImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		file, header, err := r.FormFile(ImageField)
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "pixels", string(data))
		assert.Equal(t, "hero.png", header.Filename)
		_, _ = w.Write([]byte(`{"imageUrl":"https://cdn.test/hero.png"}`))
	})

	url, err := c.UploadImage(context.Background(), "/content/about-us", "hero.png", strings.NewReader("pixels"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/hero.png", url)
}

func TestClient_Errors(t *testing.T) {
	t.Run("structured error body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Slides array is required","code":"ERR_SLIDES_REQUIRED","request_id":"req-9"}`))
		})

		err := c.Put(context.Background(), "/content/carousel", map[string]string{"slides": "x"}, nil)
		require.Error(t, err)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "ERR_SLIDES_REQUIRED", apiErr.Code)
		assert.Equal(t, "Slides array is required", apiErr.Message)
		assert.Equal(t, "req-9", apiErr.RequestID)
		assert.True(t, IsStatus(err, http.StatusBadRequest))
		assert.False(t, IsStatus(err, http.StatusInternalServerError))
	})

	t.Run("plain text body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})

		err := c.Get(context.Background(), "/content/about-us", nil)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "bad gateway", apiErr.Message)
	})

	t.Run("empty upload response", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		_, err := c.UploadImage(context.Background(), "/content/about-us", "a.png", strings.NewReader("x"))
		assert.Error(t, err)
	})
}
