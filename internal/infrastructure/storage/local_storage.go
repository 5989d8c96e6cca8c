package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalObjectStorage writes uploads below a directory that the HTTP server
// exposes under urlPath.
type LocalObjectStorage struct {
	dir     string
	urlPath string
	logger  *zap.Logger
}

// NewLocalObjectStorage creates the directory if needed
func NewLocalObjectStorage(dir, urlPath string, logger *zap.Logger) (*LocalObjectStorage, error) {
	if dir == "" {
		return nil, errors.New("local storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	urlPath = "/" + strings.Trim(urlPath, "/")
	return &LocalObjectStorage{dir: dir, urlPath: urlPath, logger: logger}, nil
}

// Dir returns the root directory
func (s *LocalObjectStorage) Dir() string {
	return s.dir
}

// URLPath returns the path prefix uploads are served under
func (s *LocalObjectStorage) URLPath() string {
	return s.urlPath
}

func (s *LocalObjectStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

// Upload writes body to dir/key through a temp file and returns urlPath/key
func (s *LocalObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	target, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	written, err := io.Copy(tmp, body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	s.logger.Debug("Stored upload locally",
		zap.String("path", target),
		zap.Int64("size", written),
	)
	return s.PublicURL(key), nil
}

// PublicURL returns urlPath/key
func (s *LocalObjectStorage) PublicURL(key string) string {
	return path.Join(s.urlPath, key)
}

// DeleteObject removes dir/key. A missing file is not an error.
func (s *LocalObjectStorage) DeleteObject(ctx context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ObjectExists reports whether dir/key exists
func (s *LocalObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	target, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(target)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Ping checks the directory is still there
func (s *LocalObjectStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
