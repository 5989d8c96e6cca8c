package content

import "github.com/glowetsu/backend/internal/domain/shared"

// Content errors surfaced to API callers
var (
	ErrSlidesRequired       = shared.NewDomainError("SLIDES_REQUIRED", "Slides array is required")
	ErrImageRequired        = shared.NewDomainError("IMAGE_REQUIRED", "Image file is required")
	ErrUnsupportedImageType = shared.NewDomainError("UNSUPPORTED_IMAGE_TYPE", "Image type is not allowed")
	ErrUnknownKind          = shared.NewDomainError("UNKNOWN_CONTENT_TYPE", "Unknown content type")
)
