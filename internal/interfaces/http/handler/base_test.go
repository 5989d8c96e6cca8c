package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/domain/shared"
	"github.com/glowetsu/backend/internal/infrastructure/logger"
	"github.com/glowetsu/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context string",
			setup: func(c *gin.Context) {
				c.Set(logger.GinRequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(logger.GinRequestIDKey, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(logger.GinRequestIDKey, "ctx-id")
				c.Request.Header.Set(logger.GinRequestIDKey, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)
			tt.setup(c)

			assert.Equal(t, tt.expectedID, requestID(c))
		})
	}
}

func TestBaseHandlerOK(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.OK(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key":"value"}`, w.Body.String())
}

func TestBaseHandlerError(t *testing.T) {
	tests := []struct {
		code         string
		expectedCode int
	}{
		{dto.ErrCodeInvalidJSON, http.StatusBadRequest},
		{dto.ErrCodeNotFound, http.StatusNotFound},
		{dto.ErrCodeUploadFailed, http.StatusInternalServerError},
		{dto.ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Set(logger.GinRequestIDKey, "req-1")

			h.Error(c, tt.code, "Something failed")

			assert.True(t, c.IsAborted())
			assert.Equal(t, tt.expectedCode, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, "req-1", resp.RequestID)
			assert.Equal(t, "Something failed", resp.Message)
		})
	}
}

func TestBaseHandlerValidationError(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PUT", "/", nil)

	h.ValidationError(c, []dto.ValidationDetail{{Field: "slides[0].title", Message: "This field is required"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeValidation, resp.Code)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "slides[0].title", resp.Details[0].Field)
}

func TestBaseHandlerHandleDomainError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "not found",
			err:             shared.ErrNotFound,
			expectedStatus:  http.StatusNotFound,
			expectedCode:    dto.ErrCodeNotFound,
			expectedMessage: "Resource not found",
		},
		{
			name:            "validation",
			err:             shared.NewDomainError("VALIDATION_ERROR", "slides[0].title is required"),
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    dto.ErrCodeValidation,
			expectedMessage: "slides[0].title is required",
		},
		{
			name:            "wrapped slides required",
			err:             fmt.Errorf("update: %w", content.ErrSlidesRequired),
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    dto.ErrCodeSlidesRequired,
			expectedMessage: "Slides array is required",
		},
		{
			name:            "unsupported image type",
			err:             content.ErrUnsupportedImageType,
			expectedStatus:  http.StatusUnsupportedMediaType,
			expectedCode:    dto.ErrCodeUnsupportedMedia,
			expectedMessage: content.ErrUnsupportedImageType.Message,
		},
		{
			name:            "plain error hides details",
			err:             errors.New("pq: connection refused"),
			expectedStatus:  http.StatusInternalServerError,
			expectedCode:    dto.ErrCodeInternal,
			expectedMessage: "Failed to fetch content",
		},
		{
			name:            "internal domain error uses fallback",
			err:             shared.ErrInternal,
			expectedStatus:  http.StatusInternalServerError,
			expectedCode:    dto.ErrCodeInternal,
			expectedMessage: "Failed to fetch content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			h.HandleDomainError(c, tt.err, "Failed to fetch content")

			assert.Equal(t, tt.expectedStatus, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, tt.expectedMessage, resp.Message)
		})
	}
}
