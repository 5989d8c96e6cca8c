package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glowetsu/backend/internal/domain/shared"
	"github.com/glowetsu/backend/internal/infrastructure/logger"
	"github.com/glowetsu/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// BaseHandler writes the JSON bodies shared by every handler
type BaseHandler struct{}

// requestID returns the id the RequestID middleware stored, or the one the
// caller sent when the middleware did not run
func requestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(logger.GinRequestIDKey)
}

// OK sends body with status 200
func (h *BaseHandler) OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Error aborts with code, sent with the status dto.GetHTTPStatus assigns it
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, requestID(c)))
}

// ValidationError aborts with 400 and one detail per rejected field
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.AbortWithStatusJSON(http.StatusBadRequest,
		dto.NewValidationErrorResponse("Request validation failed", requestID(c), details))
}

// HandleDomainError answers a domain error with its own code and message.
// Anything else is logged and answered with ERR_INTERNAL and fallback.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error, fallback string) {
	var de *shared.DomainError
	if errors.As(err, &de) && !errors.Is(err, shared.ErrInternal) {
		h.Error(c, dto.NormalizeErrorCode(de.Code), de.Message)
		return
	}

	logger.L(c.Request.Context()).Error(fallback,
		zap.String("request_id", requestID(c)),
		zap.Error(err),
	)
	h.Error(c, dto.ErrCodeInternal, fallback)
}
