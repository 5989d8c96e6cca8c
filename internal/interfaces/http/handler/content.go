package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"reflect"

	"github.com/gin-gonic/gin"
	contentapp "github.com/glowetsu/backend/internal/application/content"
	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/domain/shared"
	"github.com/glowetsu/backend/internal/infrastructure/logger"
	"github.com/glowetsu/backend/internal/interfaces/http/dto"
	"github.com/glowetsu/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Response messages shared with the editor and public clients
const (
	msgFetchContentFailed  = "Failed to fetch content"
	msgFetchCarouselFailed = "Failed to fetch carousel"
	msgUpdateContentFailed = "Failed to update content"
	msgUpdateCarouselFail  = "Failed to update carousel"
	msgUploadImageFailed   = "Failed to upload image"
	msgContentUpdated      = "Content updated successfully"
	msgCarouselUpdated     = "Carousel updated successfully"
	msgInvalidJSON         = "Invalid request body"
)

// ImageFormField is the multipart field carrying the uploaded image
const ImageFormField = "image"

// ContentHandler serves the content documents under /content
type ContentHandler struct {
	BaseHandler
	service *contentapp.Service
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(service *contentapp.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// bindJSON decodes the body into req and answers 400 on failure
func (h *ContentHandler) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	if details := middleware.ValidationDetails(err); details != nil {
		h.ValidationError(c, details)
		return false
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.Error(c, dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size")
		return false
	}
	h.Error(c, dto.ErrCodeInvalidJSON, msgInvalidJSON)
	return false
}

// GetAboutUs godoc
// @ID           getContentAboutUs
// @Summary      Get the About-Us document
// @Description  Returns the About-Us document, creating it with defaults on first access
// @Tags         content
// @Produce      json
// @Success      200 {object} content.AboutUs
// @Failure      500 {object} dto.ErrorResponse
// @Router       /content/about-us [get]
func (h *ContentHandler) GetAboutUs(c *gin.Context) {
	doc, err := h.service.GetAboutUs(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err, msgFetchContentFailed)
		return
	}
	h.OK(c, doc)
}

// UpdateAboutUs godoc
// @ID           updateContentAboutUs
// @Summary      Update the About-Us document
// @Description  Applies the fields present in the body; absent fields keep their stored value
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        request body dto.UpdateAboutUsRequest true "Fields to update"
// @Success      200 {object} dto.AboutUsUpdatedResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /content/about-us [put]
func (h *ContentHandler) UpdateAboutUs(c *gin.Context) {
	var req dto.UpdateAboutUsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdateAboutUs(c.Request.Context(), req.ToPatch())
	if err != nil {
		h.HandleDomainError(c, err, msgUpdateContentFailed)
		return
	}
	h.OK(c, dto.AboutUsUpdatedResponse{Message: msgContentUpdated, AboutUs: doc})
}

// GetCarousel godoc
// @ID           getContentCarousel
// @Summary      Get the carousel document
// @Tags         content
// @Produce      json
// @Success      200 {object} content.Carousel
// @Failure      500 {object} dto.ErrorResponse
// @Router       /content/carousel [get]
func (h *ContentHandler) GetCarousel(c *gin.Context) {
	doc, err := h.service.GetCarousel(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err, msgFetchCarouselFailed)
		return
	}
	h.OK(c, doc)
}

// UpdateCarousel godoc
// @ID           updateContentCarousel
// @Summary      Replace the carousel slides
// @Description  The body must carry a slides array; it replaces the stored list
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        request body dto.UpdateCarouselRequest true "Slides"
// @Success      200 {object} dto.CarouselUpdatedResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /content/carousel [put]
func (h *ContentHandler) UpdateCarousel(c *gin.Context) {
	var req dto.UpdateCarouselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if slidesNotArray(err) {
			h.HandleDomainError(c, content.ErrSlidesRequired, msgUpdateCarouselFail)
			return
		}
		if details := middleware.ValidationDetails(err); details != nil {
			h.ValidationError(c, details)
			return
		}
		h.Error(c, dto.ErrCodeInvalidJSON, msgInvalidJSON)
		return
	}

	doc, err := h.service.UpdateCarousel(c.Request.Context(), req.ToPatch())
	if err != nil {
		h.HandleDomainError(c, err, msgUpdateCarouselFail)
		return
	}
	h.OK(c, dto.CarouselUpdatedResponse{Message: msgCarouselUpdated, Carousel: doc})
}

// slidesNotArray reports whether err rejects the slides value itself. A type
// error inside one of the elements carries the same field name but targets
// the element type.
func slidesNotArray(err error) bool {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field != "slides" || typeErr.Type == nil {
		return false
	}
	t := typeErr.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Slice
}

// GetWhyChooseUs godoc
// @ID           getContentWhyChooseUs
// @Summary      Get the Why-Choose-Us document
// @Tags         content
// @Produce      json
// @Success      200 {object} content.WhyChooseUs
// @Failure      500 {object} dto.ErrorResponse
// @Router       /content/why-choose-us [get]
func (h *ContentHandler) GetWhyChooseUs(c *gin.Context) {
	doc, err := h.service.GetWhyChooseUs(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err, msgFetchContentFailed)
		return
	}
	h.OK(c, doc)
}

// UpdateWhyChooseUs godoc
// @ID           updateContentWhyChooseUs
// @Summary      Update the Why-Choose-Us document
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        request body dto.UpdateWhyChooseUsRequest true "Fields to update"
// @Success      200 {object} dto.WhyChooseUsUpdatedResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /content/why-choose-us [put]
func (h *ContentHandler) UpdateWhyChooseUs(c *gin.Context) {
	var req dto.UpdateWhyChooseUsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdateWhyChooseUs(c.Request.Context(), req.ToPatch())
	if err != nil {
		h.HandleDomainError(c, err, msgUpdateContentFailed)
		return
	}
	h.OK(c, dto.WhyChooseUsUpdatedResponse{Message: msgContentUpdated, WhyChoose: doc})
}

// UploadAboutUsImage godoc
// @ID           uploadContentAboutUsImage
// @Summary      Upload an About-Us image
// @Description  Stores the image and returns its URL. The URL is not attached to the document.
// @Tags         content
// @Accept       multipart/form-data
// @Produce      json
// @Param        image formData file true "Image file"
// @Success      200 {object} dto.ImageUploadResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      413 {object} dto.ErrorResponse
// @Failure      415 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /content/about-us [post]
func (h *ContentHandler) UploadAboutUsImage(c *gin.Context) {
	h.uploadImage(c, content.KindAboutUs)
}

// UploadCarouselImage godoc
// @ID           uploadContentCarouselImage
// @Summary      Upload a carousel slide image
// @Tags         content
// @Accept       multipart/form-data
// @Produce      json
// @Param        image formData file true "Image file"
// @Success      200 {object} dto.ImageUploadResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /content/carousel [post]
func (h *ContentHandler) UploadCarouselImage(c *gin.Context) {
	h.uploadImage(c, content.KindCarousel)
}

// UploadWhyChooseUsImage godoc
// @ID           uploadContentWhyChooseUsImage
// @Summary      Upload a Why-Choose-Us image
// @Tags         content
// @Accept       multipart/form-data
// @Produce      json
// @Param        image formData file true "Image file"
// @Success      200 {object} dto.ImageUploadResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /content/why-choose-us [post]
func (h *ContentHandler) UploadWhyChooseUsImage(c *gin.Context) {
	h.uploadImage(c, content.KindWhyChooseUs)
}

func (h *ContentHandler) uploadImage(c *gin.Context, kind content.Kind) {
	file, err := c.FormFile(ImageFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, dto.ErrCodePayloadTooLarge, "Image exceeds maximum allowed size")
			return
		}
		h.HandleDomainError(c, content.ErrImageRequired, msgUploadImageFailed)
		return
	}
	if file.Size == 0 {
		h.HandleDomainError(c, content.ErrImageRequired, msgUploadImageFailed)
		return
	}

	body, err := file.Open()
	if err != nil {
		logger.L(c.Request.Context()).Error("Failed to open uploaded file", zap.Error(err))
		h.Error(c, dto.ErrCodeUploadFailed, msgUploadImageFailed)
		return
	}
	defer body.Close()

	url, err := h.service.UploadImage(c.Request.Context(), kind, contentapp.UploadImageInput{
		Filename:    file.Filename,
		ContentType: uploadContentType(file),
		Size:        file.Size,
		Body:        body,
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.HandleDomainError(c, err, msgUploadImageFailed)
			return
		}
		logger.L(c.Request.Context()).Error(msgUploadImageFailed,
			zap.String("kind", kind.String()),
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		h.Error(c, dto.ErrCodeUploadFailed, msgUploadImageFailed)
		return
	}

	h.OK(c, dto.ImageUploadResponse{ImageURL: url})
}

// uploadContentType prefers the part header and falls back to the file extension
func uploadContentType(file *multipart.FileHeader) string {
	ct := file.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if byExt := mime.TypeByExtension(filepath.Ext(file.Filename)); byExt != "" {
		return byExt
	}
	return ct
}

// GetPublicAboutUs godoc
// @ID           getContentAboutUsPublic
// @Summary      Get the About-Us document as rendered publicly
// @Description  Only active team members, sorted by order
// @Tags         content
// @Produce      json
// @Success      200 {object} content.AboutUs
// @Failure      500 {object} dto.ErrorResponse
// @Router       /content/about-us/public [get]
func (h *ContentHandler) GetPublicAboutUs(c *gin.Context) {
	doc, err := h.service.PublicAboutUs(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err, msgFetchContentFailed)
		return
	}
	h.OK(c, doc)
}

// GetPublicCarousel godoc
// @ID           getContentCarouselPublic
// @Summary      Get the active carousel slides
// @Tags         content
// @Produce      json
// @Success      200 {object} content.Carousel
// @Failure      500 {object} dto.ErrorResponse
// @Router       /content/carousel/public [get]
func (h *ContentHandler) GetPublicCarousel(c *gin.Context) {
	doc, err := h.service.PublicCarousel(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err, msgFetchCarouselFailed)
		return
	}
	h.OK(c, doc)
}

// GetPublicWhyChooseUs godoc
// @ID           getContentWhyChooseUsPublic
// @Summary      Get the Why-Choose-Us document as rendered publicly
// @Tags         content
// @Produce      json
// @Success      200 {object} content.WhyChooseUs
// @Failure      500 {object} dto.ErrorResponse
// @Router       /content/why-choose-us/public [get]
func (h *ContentHandler) GetPublicWhyChooseUs(c *gin.Context) {
	doc, err := h.service.PublicWhyChooseUs(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err, msgFetchContentFailed)
		return
	}
	h.OK(c, doc)
}

// ListContent godoc
// @ID           listContent
// @Summary      List the content documents
// @Description  Every content type with its path and whether it has been stored yet
// @Tags         content
// @Produce      json
// @Success      200 {array} dto.ContentIndexEntry
// @Failure      500 {object} dto.ErrorResponse
// @Router       /content [get]
func (h *ContentHandler) ListContent(c *gin.Context) {
	stored, err := h.service.StoredKinds(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err, msgFetchContentFailed)
		return
	}

	present := make(map[content.Kind]bool, len(stored))
	for _, k := range stored {
		present[k] = true
	}

	entries := make([]dto.ContentIndexEntry, 0, len(content.Kinds))
	for _, k := range content.Kinds {
		entries = append(entries, dto.ContentIndexEntry{
			Kind:   k.String(),
			Path:   "/api/content/" + k.Slug(),
			Stored: present[k],
		})
	}
	h.OK(c, entries)
}

// ListIcons godoc
// @ID           listContentIcons
// @Summary      List the feature icon names
// @Tags         content
// @Produce      json
// @Success      200 {object} dto.IconsResponse
// @Router       /content/icons [get]
func (h *ContentHandler) ListIcons(c *gin.Context) {
	icons := make([]string, len(content.IconOptions))
	copy(icons, content.IconOptions)
	h.OK(c, dto.IconsResponse{Icons: icons})
}
