package dto

import (
	"net/http"
	"sort"
)

// API error codes
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeNotFound   = "ERR_NOT_FOUND"

	ErrCodeInvalidJSON = "ERR_INVALID_JSON"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	// ErrCodeSlidesRequired answers a carousel update whose slides is not an array
	ErrCodeSlidesRequired   = "ERR_SLIDES_REQUIRED"
	ErrCodeImageRequired    = "ERR_IMAGE_REQUIRED"
	ErrCodeUnsupportedMedia = "ERR_UNSUPPORTED_MEDIA_TYPE"
	ErrCodePayloadTooLarge  = "ERR_PAYLOAD_TOO_LARGE"
	// ErrCodeUploadFailed means object storage rejected the image
	ErrCodeUploadFailed = "ERR_UPLOAD_FAILED"
)

type codeInfo struct {
	status int
	// domain lists the shared.DomainError codes reported under this code
	domain []string
}

var errorCodes = map[string]codeInfo{
	ErrCodeInternal:   {http.StatusInternalServerError, []string{"INTERNAL_ERROR"}},
	ErrCodeValidation: {http.StatusBadRequest, []string{"VALIDATION_ERROR"}},
	ErrCodeNotFound:   {http.StatusNotFound, []string{"NOT_FOUND", "UNKNOWN_CONTENT_TYPE"}},

	ErrCodeInvalidJSON: {http.StatusBadRequest, nil},

	ErrCodeUnauthorized: {http.StatusUnauthorized, nil},
	ErrCodeTokenExpired: {http.StatusUnauthorized, nil},
	ErrCodeTokenInvalid: {http.StatusUnauthorized, nil},
	ErrCodeForbidden:    {http.StatusForbidden, nil},

	ErrCodeSlidesRequired:   {http.StatusBadRequest, []string{"SLIDES_REQUIRED"}},
	ErrCodeImageRequired:    {http.StatusBadRequest, []string{"IMAGE_REQUIRED"}},
	ErrCodeUnsupportedMedia: {http.StatusUnsupportedMediaType, []string{"UNSUPPORTED_IMAGE_TYPE"}},
	ErrCodePayloadTooLarge:  {http.StatusRequestEntityTooLarge, nil},
	ErrCodeUploadFailed:     {http.StatusInternalServerError, nil},
}

var domainCodes = func() map[string]string {
	m := make(map[string]string)
	for code, info := range errorCodes {
		for _, d := range info.domain {
			m[d] = code
		}
	}
	return m
}()

// GetHTTPStatus returns the status an API error code is sent with, 500 for
// codes it does not know
func GetHTTPStatus(code string) int {
	if info, ok := errorCodes[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode turns a domain error code into its API code. Other codes
// are returned unchanged.
func NormalizeErrorCode(code string) string {
	if api, ok := domainCodes[code]; ok {
		return api
	}
	return code
}

// ErrorCodes lists every API error code, sorted
func ErrorCodes() []string {
	codes := make([]string, 0, len(errorCodes))
	for code := range errorCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
