// Package testutil provides fixtures shared by the client, router and
// integration tests: a content API backed by sqlite and helpers for driving it.
package testutil

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	contentapp "github.com/glowetsu/backend/internal/application/content"
	"github.com/glowetsu/backend/internal/infrastructure/auth"
	"github.com/glowetsu/backend/internal/infrastructure/config"
	"github.com/glowetsu/backend/internal/infrastructure/persistence"
	"github.com/glowetsu/backend/internal/infrastructure/storage"
	"github.com/glowetsu/backend/internal/interfaces/http/handler"
	"github.com/glowetsu/backend/internal/interfaces/http/middleware"
	"github.com/glowetsu/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// StorageBaseURL is the URL prefix the fixture's stub storage hands out
const StorageBaseURL = "https://storage.test"

// ContentAPI is a running content API. Close is registered with t.Cleanup.
type ContentAPI struct {
	Server  *httptest.Server
	DB      *persistence.Database
	Service *contentapp.Service
	// JWT is set when the API was started WithEditorAuth
	JWT *auth.JWTService
}

// URL returns the API root the clients take as their base URL
func (a *ContentAPI) URL() string {
	return a.Server.URL + "/api"
}

// EditorToken mints a token for the API's editor auth
func (a *ContentAPI) EditorToken(t *testing.T) string {
	t.Helper()
	require.NotNil(t, a.JWT, "content API started without editor auth")
	token, _, err := a.JWT.GenerateEditorToken("editor@example.com")
	require.NoError(t, err)
	return token
}

type apiOptions struct {
	editorAuth     bool
	serviceConfig  *contentapp.ServiceConfig
	maxUploadBytes int64
	db             *persistence.Database
}

// APIOption configures NewContentAPI
type APIOption func(*apiOptions)

// WithEditorAuth guards writes with JWT editor auth
func WithEditorAuth() APIOption {
	return func(o *apiOptions) { o.editorAuth = true }
}

// WithServiceConfig replaces the default service configuration
func WithServiceConfig(cfg contentapp.ServiceConfig) APIOption {
	return func(o *apiOptions) { o.serviceConfig = &cfg }
}

// WithMaxUploadBytes caps image uploads
func WithMaxUploadBytes(n int64) APIOption {
	return func(o *apiOptions) { o.maxUploadBytes = n }
}

// WithDatabase serves from db instead of a fresh sqlite file. db must already
// carry the content schema.
func WithDatabase(db *persistence.Database) APIOption {
	return func(o *apiOptions) { o.db = db }
}

// NewContentAPI starts the full HTTP stack on an httptest server
func NewContentAPI(t *testing.T, opts ...APIOption) *ContentAPI {
	t.Helper()
	o := apiOptions{maxUploadBytes: 1 << 20}
	for _, opt := range opts {
		opt(&o)
	}

	db := o.db
	if db == nil {
		db = NewSQLiteDatabase(t)
	}

	log := zaptest.NewLogger(t)
	service := contentapp.NewService(
		persistence.NewGormContentRepository(db.DB),
		nil,
		storage.NewStubObjectStorage(StorageBaseURL),
		log,
	)
	if o.serviceConfig != nil {
		service.SetConfig(*o.serviceConfig)
	}

	api := &ContentAPI{DB: db, Service: service}
	routes := router.ContentRoutesConfig{MaxJSONBytes: 1 << 20, MaxUploadBytes: o.maxUploadBytes}
	if o.editorAuth {
		api.JWT = auth.NewJWTService(config.JWTConfig{
			Enabled:               true,
			Secret:                "testutil-editor-secret-long-enough",
			Issuer:                "glowetsu-test",
			AccessTokenExpiration: time.Hour,
		})
		routes.EditorAuth = middleware.EditorAuth(middleware.DefaultJWTConfig(api.JWT))
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:   log,
		Security: middleware.DefaultSecurityConfig(),
	})
	require.NoError(t, err)

	health := handler.NewHealthHandler("test", map[string]handler.Pinger{"database": db})
	router.RegisterHealthRoutes(engine, health)
	router.NewRouter(engine).
		Register(router.NewContentRoutes(handler.NewContentHandler(service), routes)).
		Register(router.NewSystemRoutes(health)).
		Setup()

	api.Server = httptest.NewServer(engine)
	t.Cleanup(api.Server.Close)
	return api
}

// NewSQLiteDatabase opens a migrated sqlite database in a temp dir
func NewSQLiteDatabase(t *testing.T) *persistence.Database {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "content.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually polls condition until it holds or timeout passes.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
