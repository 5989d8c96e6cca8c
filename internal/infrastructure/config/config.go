package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Content   ContentConfig   `mapstructure:"content"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Swagger   SwaggerConfig   `mapstructure:"swagger"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres, sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	Path            string `mapstructure:"path"` // sqlite file
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
	AutoMigrate     bool   `mapstructure:"auto_migrate"`       // migrate on server start
}

// DSN returns the postgres connection URL with escaped credentials
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisConfig holds the content cache connection
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Addr returns host:port for the redis client
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StorageConfig selects where uploaded images are written
type StorageConfig struct {
	Driver        string `mapstructure:"driver"` // s3, local, stub
	Endpoint      string `mapstructure:"endpoint"`
	Bucket        string `mapstructure:"bucket"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Region        string `mapstructure:"region"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	UsePathStyle  bool   `mapstructure:"use_path_style"`
	PublicBaseURL string `mapstructure:"public_base_url"` // defaults to endpoint/bucket
	KeyPrefix     string `mapstructure:"key_prefix"`
	LocalDir      string `mapstructure:"local_dir"`
	LocalURLPath  string `mapstructure:"local_url_path"`
}

// ContentConfig holds content API behaviour
type ContentConfig struct {
	AboutUsPresence     string   `mapstructure:"about_us_presence"` // defined, truthy
	CarouselPresence    string   `mapstructure:"carousel_presence"`
	WhyChooseUsPresence string   `mapstructure:"why_choose_us_presence"`
	MaxUploadBytes      int64    `mapstructure:"max_upload_bytes"`
	AllowedImageTypes   []string `mapstructure:"allowed_image_types"` // empty accepts any type
}

// JWTConfig guards the content write routes
type JWTConfig struct {
	Enabled               bool          `mapstructure:"enabled"`
	Secret                string        `mapstructure:"secret"`
	Issuer                string        `mapstructure:"issuer"`
	AccessTokenExpiration time.Duration `mapstructure:"access_token_expiration"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"` // empty allows no cross-origin request
	CORSAllowMethods []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	RequireAuth bool     `mapstructure:"require_auth"` // needs jwt.enabled
	AllowedIPs  []string `mapstructure:"allowed_ips"`  // IPs or CIDRs, empty allows all
}

// TelemetryConfig holds OpenTelemetry and profiling configuration. Traces,
// metrics and logs share one collector.
type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"` // traces
	CollectorEndpoint string  `mapstructure:"collector_endpoint"`
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	ServiceName       string  `mapstructure:"service_name"`
	Insecure          bool    `mapstructure:"insecure"`

	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"` // development only
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`

	MetricsEnabled        bool          `mapstructure:"metrics_enabled"`
	MetricsExportInterval time.Duration `mapstructure:"metrics_export_interval"`
	LogsEnabled           bool          `mapstructure:"logs_enabled"`
	LogsLevel             string        `mapstructure:"logs_level"` // defaults to log.level

	ProfilingEnabled      bool   `mapstructure:"profiling_enabled"`
	ProfilingServerAddr   string `mapstructure:"profiling_server_addr"`
	ProfilingAuthUser     string `mapstructure:"profiling_auth_user"`
	ProfilingAuthPassword string `mapstructure:"profiling_auth_password"`
	SpanProfilesEnabled   bool   `mapstructure:"span_profiles_enabled"` // needs tracing and profiling
}

// defaults lists every key. A key must be known to viper for its
// GLOWETSU_ variable to reach Unmarshal, so zero values are listed too.
var defaults = map[string]any{
	"app.name": "glowetsu-backend",
	"app.env":  "development",
	"app.port": "8080",

	"database.driver":             "postgres",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "glowetsu",
	"database.sslmode":            "disable",
	"database.path":               "glowetsu.db",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,
	"database.auto_migrate":       true,

	"redis.enabled":   false,
	"redis.host":      "localhost",
	"redis.port":      6379,
	"redis.password":  "",
	"redis.db":        0,
	"redis.cache_ttl": 10 * time.Minute,

	"storage.driver":          "local",
	"storage.endpoint":        "",
	"storage.bucket":          "",
	"storage.access_key":      "",
	"storage.secret_key":      "",
	"storage.region":          "us-east-1",
	"storage.use_ssl":         false,
	"storage.use_path_style":  false,
	"storage.public_base_url": "",
	"storage.key_prefix":      "content",
	"storage.local_dir":       "uploads",
	"storage.local_url_path":  "/uploads",

	"content.about_us_presence":      "",
	"content.carousel_presence":      "",
	"content.why_choose_us_presence": "",
	"content.max_upload_bytes":       10 << 20,
	"content.allowed_image_types":    []string{},

	"jwt.enabled":                 false,
	"jwt.secret":                  "",
	"jwt.issuer":                  "glowetsu-backend",
	"jwt.access_token_expiration": 12 * time.Hour,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":       15 * time.Second,
	"http.write_timeout":      30 * time.Second,
	"http.idle_timeout":       60 * time.Second,
	"http.shutdown_timeout":   30 * time.Second,
	"http.max_header_bytes":   1 << 20,
	"http.max_body_size":      1 << 20,
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":    []string{},

	"swagger.enabled":      false,
	"swagger.require_auth": false,
	"swagger.allowed_ips":  []string{},

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "glowetsu-backend",
	"telemetry.insecure":                false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
	"telemetry.metrics_enabled":         false,
	"telemetry.metrics_export_interval": time.Minute,
	"telemetry.logs_enabled":            false,
	"telemetry.logs_level":              "",
	"telemetry.profiling_enabled":       false,
	"telemetry.profiling_server_addr":   "http://localhost:4040",
	"telemetry.profiling_auth_user":     "",
	"telemetry.profiling_auth_password": "",
	"telemetry.span_profiles_enabled":   false,
}

// Load reads config.toml from . or /app, then GLOWETSU_ environment
// variables (GLOWETSU_DATABASE_PASSWORD overrides database.password).
// Missing keys take the built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("GLOWETSU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if cfg.Telemetry.LogsLevel == "" {
		cfg.Telemetry.LogsLevel = cfg.Log.Level
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports every problem at once
func (c *Config) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Database.Driver == "postgres" || c.Database.Driver == "sqlite",
		"database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	check(c.Database.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(c.Database.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(c.Database.MaxIdleConns <= c.Database.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
		c.Database.MaxIdleConns, c.Database.MaxOpenConns)

	switch c.Storage.Driver {
	case "s3":
		check(c.Storage.Bucket != "", "storage.bucket is required for the s3 driver")
	case "local", "stub":
	default:
		check(false, "storage.driver must be s3, local or stub, got %q", c.Storage.Driver)
	}

	for key, value := range map[string]string{
		"content.about_us_presence":      c.Content.AboutUsPresence,
		"content.carousel_presence":      c.Content.CarouselPresence,
		"content.why_choose_us_presence": c.Content.WhyChooseUsPresence,
	} {
		switch strings.ToLower(value) {
		case "", "defined", "truthy":
		default:
			check(false, "%s must be defined or truthy, got %q", key, value)
		}
	}
	check(c.Content.MaxUploadBytes >= 0, "content.max_upload_bytes cannot be negative")

	check(!c.JWT.Enabled || c.JWT.Secret != "", "jwt.secret is required when jwt.enabled is true")
	check(!c.Swagger.RequireAuth || c.JWT.Enabled, "swagger.require_auth needs jwt.enabled")

	t := c.Telemetry
	check(t.SamplingRatio >= 0 && t.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", t.SamplingRatio)
	check(t.MetricsExportInterval >= time.Second,
		"telemetry.metrics_export_interval must be at least 1s, got %s", t.MetricsExportInterval)
	check(!t.SpanProfilesEnabled || (t.Enabled && t.ProfilingEnabled),
		"telemetry.span_profiles_enabled needs both tracing and profiling enabled")

	if c.App.Env == "production" {
		errs = append(errs, c.validateProduction()...)
	}
	return errors.Join(errs...)
}

func (c *Config) validateProduction() []error {
	var errs []error
	if !c.JWT.Enabled {
		errs = append(errs, errors.New("jwt.enabled must be true in production"))
	}
	if len(c.JWT.Secret) < 32 {
		errs = append(errs, errors.New("jwt.secret must be at least 32 characters in production"))
	}
	if c.Database.Driver == "postgres" && c.Database.Password == "" {
		errs = append(errs, errors.New("database.password is required in production"))
	}
	if c.Storage.Driver == "stub" {
		errs = append(errs, errors.New("storage.driver cannot be stub in production"))
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			errs = append(errs, errors.New("http.cors_allow_origins cannot be '*' in production"))
		}
	}
	if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
		errs = append(errs, errors.New("swagger must require auth or an IP allowlist in production"))
	}
	if c.Telemetry.DBLogFullSQL {
		errs = append(errs, errors.New("telemetry.db_log_full_sql must be false in production"))
	}
	return errs
}
