package content

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ImageStorage is the object store uploaded images end up in
type ImageStorage interface {
	// Upload stores body under key and returns the URL clients fetch it from
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// UploadImageInput describes one uploaded image file
type UploadImageInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadImage stores an image for kind and returns its URL. The URL is not
// attached to any document; callers persist it with a later update.
func (s *Service) UploadImage(ctx context.Context, kind content.Kind, input UploadImageInput) (url string, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "content", "upload_image",
		attribute.String(telemetry.SpanAttrContentKind, kind.String()),
		attribute.Int64(telemetry.SpanAttrObjectSize, input.Size))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
		if s.metrics != nil {
			s.metrics.ImageUploaded(ctx, kind.String(), input.Size, err)
		}
	}()

	if !kind.IsValid() {
		return "", content.ErrUnknownKind
	}
	if input.Body == nil || input.Size <= 0 {
		return "", content.ErrImageRequired
	}
	if !s.imageTypeAllowed(input.ContentType) {
		return "", content.ErrUnsupportedImageType
	}

	key := objectKey(kind, input.Filename, time.Now().UTC())
	span.SetAttributes(attribute.String(telemetry.SpanAttrObjectKey, key))

	telemetry.WithProfilingLabels(ctx, map[string]string{
		telemetry.ProfileLabelOperation:   "upload_image",
		telemetry.ProfileLabelContentKind: kind.String(),
	}, func(ctx context.Context) {
		url, err = s.storage.Upload(ctx, key, input.Body, input.Size, input.ContentType)
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	s.logger.Info("Image uploaded",
		zap.String("kind", kind.String()),
		zap.String("key", key),
		zap.Int64("size", input.Size),
	)
	return url, nil
}

func (s *Service) imageTypeAllowed(contentType string) bool {
	if len(s.config.AllowedImageTypes) == 0 {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, allowed := range s.config.AllowedImageTypes {
		if strings.EqualFold(allowed, mediaType) {
			return true
		}
	}
	return false
}

// objectKey builds content/<kind>/<YYYYMMDD>-<uuid><ext>
func objectKey(kind content.Kind, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 10 || strings.ContainsAny(ext, " /?#%") {
		ext = ""
	}
	return fmt.Sprintf("content/%s/%s-%s%s", kind, now.Format("20060102"), uuid.NewString(), ext)
}
