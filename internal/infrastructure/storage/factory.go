package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/glowetsu/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Driver names accepted in storage.driver
const (
	DriverS3    = "s3"
	DriverLocal = "local"
	DriverStub  = "stub"
)

// Backend is what every storage driver provides
type Backend interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	PublicURL(key string) string
	Ping(ctx context.Context) error
}

// New builds the backend selected by cfg.Driver. For s3 the bucket is created
// when missing.
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case DriverS3:
		s, err := NewS3ObjectStorage(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Using S3 object storage",
			zap.String("bucket", s.Bucket()),
			zap.String("endpoint", cfg.Endpoint),
		)
		return s, nil
	case DriverLocal, "":
		s, err := NewLocalObjectStorage(cfg.LocalDir, cfg.LocalURLPath, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using local object storage", zap.String("dir", s.Dir()))
		return s, nil
	case DriverStub:
		logger.Warn("Using stub object storage, uploads are discarded")
		return NewStubObjectStorage(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
