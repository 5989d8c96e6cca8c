package dto

import "github.com/glowetsu/backend/internal/domain/content"

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Message   string             `json:"message"`
	Code      string             `json:"code"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one invalid field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message}
}

// NewErrorResponseWithRequestID creates an error response carrying the request id
func NewErrorResponseWithRequestID(code, message, requestID string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message, RequestID: requestID}
}

// NewValidationErrorResponse creates a validation error response with field details
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) ErrorResponse {
	return ErrorResponse{
		Code:      ErrCodeValidation,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	}
}

// AboutUsUpdatedResponse is returned by PUT /content/about-us
type AboutUsUpdatedResponse struct {
	Message string           `json:"message"`
	AboutUs *content.AboutUs `json:"aboutUs"`
}

// CarouselUpdatedResponse is returned by PUT /content/carousel
type CarouselUpdatedResponse struct {
	Message  string            `json:"message"`
	Carousel *content.Carousel `json:"carousel"`
}

// WhyChooseUsUpdatedResponse is returned by PUT /content/why-choose-us
type WhyChooseUsUpdatedResponse struct {
	Message   string               `json:"message"`
	WhyChoose *content.WhyChooseUs `json:"whyChoose"`
}

// ImageUploadResponse is returned by the image upload endpoints
type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// ContentIndexEntry describes one content type in GET /content
type ContentIndexEntry struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Stored bool   `json:"stored"`
}

// IconsResponse lists the icon names features may use
type IconsResponse struct {
	Icons []string `json:"icons"`
}

// HealthResponse is returned by the health endpoints
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
