package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// StubObjectStorage accepts uploads without storing anything and hands back a
// deterministic URL. Use this in development and tests.
type StubObjectStorage struct {
	// BaseURL prefixes every returned URL.
	// Defaults to "https://storage.example.com" if not set
	BaseURL string
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &StubObjectStorage{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Upload drains body and returns the URL the object would have
func (s *StubObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

// PublicURL returns BaseURL/key
func (s *StubObjectStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + key
}

// Ping always succeeds
func (s *StubObjectStorage) Ping(ctx context.Context) error {
	return nil
}
