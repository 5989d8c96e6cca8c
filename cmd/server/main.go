package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	contentapp "github.com/glowetsu/backend/internal/application/content"
	"github.com/glowetsu/backend/internal/domain/content"
	"github.com/glowetsu/backend/internal/infrastructure/auth"
	"github.com/glowetsu/backend/internal/infrastructure/cache"
	"github.com/glowetsu/backend/internal/infrastructure/config"
	"github.com/glowetsu/backend/internal/infrastructure/logger"
	"github.com/glowetsu/backend/internal/infrastructure/migration"
	"github.com/glowetsu/backend/internal/infrastructure/persistence"
	"github.com/glowetsu/backend/internal/infrastructure/storage"
	"github.com/glowetsu/backend/internal/infrastructure/telemetry"
	"github.com/glowetsu/backend/internal/interfaces/http/handler"
	"github.com/glowetsu/backend/internal/interfaces/http/middleware"
	"github.com/glowetsu/backend/internal/interfaces/http/router"
	"github.com/glowetsu/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//	@title			Glowetsu Content API
//	@version		1.0
//	@description	Editable site content for the Glowetsu travel site: About Us, the home carousel and Why Choose Us.

//	@contact.name	API Support
//	@contact.url	https://github.com/glowetsu/backend

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Editor token. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog, logErr := logger.NewForEnvironment(os.Getenv("GLOWETSU_APP_ENV"))
		if logErr != nil {
			panic("Failed to load configuration: " + err.Error())
		}
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	tel := setupTelemetry(ctx, cfg, baseLog)
	log := tel.logger
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting content backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db := openDatabase(cfg, log)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	contentCache, err := cache.NewContentCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.Redis.Enabled || cfg.App.Env != "production"),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to initialize content cache", zap.Error(err))
	}

	imageStorage, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	service := contentapp.NewService(persistence.NewGormContentRepository(db.DB), contentCache, imageStorage, log)
	serviceCfg, err := serviceConfig(cfg.Content)
	if err != nil {
		log.Fatal("Invalid content configuration", zap.Error(err))
	}
	service.SetConfig(serviceCfg)
	service.SetMetrics(tel.contentMetrics)

	var editorAuth, swaggerAuth gin.HandlerFunc
	if cfg.JWT.Enabled {
		jwtService := auth.NewJWTService(cfg.JWT)
		jwtCfg := middleware.DefaultJWTConfig(jwtService)
		jwtCfg.Logger = log
		editorAuth = middleware.EditorAuth(jwtCfg)

		jwtCfg.SafeMethods = nil
		swaggerAuth = middleware.EditorAuth(jwtCfg)
	} else {
		log.Warn("JWT disabled, content updates and uploads are not authenticated")
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger: log,
		CORS: middleware.CORSConfig{
			AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
			AllowMethods:  cfg.HTTP.CORSAllowMethods,
			AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders: []string{middleware.RequestIDKey},
			MaxAge:        12 * time.Hour,
		},
		Security: middleware.DefaultSecurityConfig(),
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Metrics:        tel.httpMetrics,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	})
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}

	if local, ok := imageStorage.(*storage.LocalObjectStorage); ok {
		engine.Static(local.URLPath(), local.Dir())
	}

	checks := map[string]handler.Pinger{
		"database": db,
		"storage":  imageStorage,
	}
	if p, ok := contentCache.(handler.Pinger); ok {
		checks["cache"] = p
	}
	health := handler.NewHealthHandler(version, checks)
	router.RegisterHealthRoutes(engine, health)

	routes := router.NewRouter(engine, router.WithLogger(log)).
		Register(router.NewContentRoutes(handler.NewContentHandler(service), router.ContentRoutesConfig{
			EditorAuth:     editorAuth,
			MaxJSONBytes:   cfg.HTTP.MaxBodySize,
			MaxUploadBytes: cfg.Content.MaxUploadBytes,
		})).
		Register(router.NewSystemRoutes(health)).
		Setup()
	log.Info("API routes mounted", zap.Int("count", len(routes)))

	if cfg.Swagger.Enabled {
		router.RegisterSwagger(engine, middleware.SwaggerProtection(middleware.SwaggerConfig{
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, swaggerAuth))
		log.Info("Swagger UI enabled", zap.Bool("require_auth", cfg.Swagger.RequireAuth))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	tel.shutdown(shutdownCtx)

	log.Info("Server exited gracefully")
}

// openDatabase connects to the configured database and brings its schema up
// to date. Failures are fatal.
func openDatabase(cfg *config.Config, log *zap.Logger) *persistence.Database {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)
	if err := plugin.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if !cfg.Database.AutoMigrate {
		return db
	}
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite database", zap.Error(err))
		}
		return db
	}
	if err := migrateUp(cfg.Database.DSN(), log); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}
	return db
}

// migrateUp applies the embedded migrations on a dedicated connection, since
// closing the migrator also closes the connection it was given.
func migrateUp(dsn string, log *zap.Logger) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	m, err := migration.NewFromFS(conn, migrations.FS, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

func serviceConfig(cfg config.ContentConfig) (contentapp.ServiceConfig, error) {
	out := contentapp.ServiceConfig{AllowedImageTypes: cfg.AllowedImageTypes}
	var err error
	if out.AboutUsPresence, err = content.ParsePresencePolicy(cfg.AboutUsPresence); err != nil {
		return out, err
	}
	if out.CarouselPresence, err = content.ParsePresencePolicy(cfg.CarouselPresence); err != nil {
		return out, err
	}
	if out.WhyChooseUsPresence, err = content.ParsePresencePolicy(cfg.WhyChooseUsPresence); err != nil {
		return out, err
	}
	return out, nil
}

type telemetryStack struct {
	logger         *zap.Logger
	tracer         *telemetry.TracerProvider
	meter          *telemetry.MeterProvider
	logs           *telemetry.LoggerProvider
	profiler       *telemetry.Profiler
	contentMetrics *telemetry.ContentMetrics
	httpMetrics    *telemetry.HTTPMetrics
}

// setupTelemetry starts the configured OpenTelemetry providers and the
// profiler. A provider that fails to start is logged and left disabled.
func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) *telemetryStack {
	t := cfg.Telemetry
	stack := &telemetryStack{logger: log}
	collector := telemetry.Collector{
		Endpoint:    t.CollectorEndpoint,
		Insecure:    t.Insecure,
		ServiceName: t.ServiceName,
		Environment: cfg.App.Env,
	}

	var err error
	stack.tracer, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
		Collector:     collector,
		Enabled:       t.Enabled,
		SamplingRatio: t.SamplingRatio,
	}, log)
	if err != nil {
		log.Error("Failed to start tracing", zap.Error(err))
	}

	stack.meter, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Collector:      collector,
		Enabled:        t.MetricsEnabled,
		ExportInterval: t.MetricsExportInterval,
	}, log)
	if err != nil {
		log.Error("Failed to start metrics", zap.Error(err))
	} else if stack.meter.IsEnabled() {
		meter := stack.meter.Meter("github.com/glowetsu/backend")
		if stack.contentMetrics, err = telemetry.NewContentMetrics(meter); err != nil {
			log.Error("Failed to create content metrics", zap.Error(err))
		}
		if stack.httpMetrics, err = telemetry.NewHTTPMetrics(meter); err != nil {
			log.Error("Failed to create HTTP metrics", zap.Error(err))
		}
	}

	stack.logs, err = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Collector: collector,
		Enabled:   t.LogsEnabled,
	}, log)
	if err != nil {
		log.Error("Failed to start log export", zap.Error(err))
	} else {
		level, _ := logger.ParseLevel(t.LogsLevel)
		stack.logger = stack.logs.Bridge(log, t.ServiceName, level)
	}

	stack.profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           t.ProfilingEnabled,
		ServerAddress:     t.ProfilingServerAddr,
		ApplicationName:   t.ServiceName,
		BasicAuthUser:     t.ProfilingAuthUser,
		BasicAuthPassword: t.ProfilingAuthPassword,
		Tags:              map[string]string{"env": cfg.App.Env},
	}, log)
	if err != nil {
		log.Error("Failed to start profiler", zap.Error(err))
	} else if t.SpanProfilesEnabled && stack.tracer != nil {
		if err := stack.tracer.EnableSpanProfiles(); err != nil {
			log.Error("Failed to enable span profiles", zap.Error(err))
		}
	}

	return stack
}

// shutdown flushes and stops every provider that started
func (s *telemetryStack) shutdown(ctx context.Context) {
	if s.tracer != nil {
		if err := s.tracer.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to shut down tracer", zap.Error(err))
		}
	}
	if s.meter != nil {
		if err := s.meter.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to shut down meter", zap.Error(err))
		}
	}
	if s.profiler != nil {
		if err := s.profiler.Stop(); err != nil {
			s.logger.Error("Failed to stop profiler", zap.Error(err))
		}
	}
	// last, so the messages above are still exported
	if s.logs != nil {
		if err := s.logs.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to shut down log exporter", zap.Error(err))
		}
	}
}
