package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glowetsu/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler("1.0.0", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestHealthHandler_Ready(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	tests := []struct {
		name           string
		checks         map[string]Pinger
		expectedStatus int
		expectedChecks map[string]string
	}{
		{
			name:           "all dependencies up",
			checks:         map[string]Pinger{"database": ok, "cache": ok},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]string{"database": "ok", "cache": "ok"},
		},
		{
			name:           "database down",
			checks:         map[string]Pinger{"database": down, "storage": ok},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]string{"database": "unavailable", "storage": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("1.0.0", tt.checks)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/health/ready", nil)

			h.Ready(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeBody[dto.HealthResponse](t, w)
			assert.Equal(t, tt.expectedChecks, resp.Checks)
			assert.NotContains(t, w.Body.String(), "refused")
		})
	}
}

func TestHealthHandler_Info(t *testing.T) {
	h := NewHealthHandler("2.1.0", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/system/info", nil)

	h.Info(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[SystemInfoResponse](t, w)
	assert.Equal(t, "2.1.0", resp.Version)
	assert.NotEmpty(t, resp.GoVersion)
	assert.NotEmpty(t, resp.Uptime)
}
