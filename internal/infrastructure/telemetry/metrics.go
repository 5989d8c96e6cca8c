package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// defaultExportInterval applies when MetricsConfig.ExportInterval is zero
const defaultExportInterval = time.Minute

// MetricsConfig controls periodic metric export
type MetricsConfig struct {
	Collector
	Enabled        bool
	ExportInterval time.Duration
}

// MeterProvider owns the SDK meter provider
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider starts a periodic OTLP reader and installs the provider
// globally. Disabled, Meter hands out the global no-op meter.
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}
	if !cfg.Enabled {
		logger.Info("Metrics disabled")
		return mp, nil
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("Metrics enabled", append(cfg.fields(), zap.Duration("export_interval", interval))...)
	return mp, nil
}

// Shutdown exports the last collection and stops the reader
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	return shutdownSignal(ctx, "metric", mp.logger, mp.provider.Shutdown)
}

// Meter returns a meter from the provider, or from the global one when
// metrics are disabled
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// IsEnabled reports whether metrics are exported
func (mp *MeterProvider) IsEnabled() bool {
	return mp.provider != nil
}

// Metric attribute keys
var (
	AttrContentKind = attribute.Key("content_kind")
	AttrOutcome     = attribute.Key("outcome")
	AttrHTTPMethod  = attribute.Key("http_method")
	AttrHTTPRoute   = attribute.Key("http_route")
	AttrHTTPStatus  = attribute.Key("http_status_code")
)

// Outcome attribute values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ContentMetrics records content document and image upload activity
type ContentMetrics struct {
	seeds       metric.Int64Counter
	updates     metric.Int64Counter
	uploads     metric.Int64Counter
	uploadBytes metric.Int64Histogram
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

// NewContentMetrics creates the content instruments on meter
func NewContentMetrics(meter metric.Meter) (*ContentMetrics, error) {
	m := &ContentMetrics{}
	var err error

	if m.seeds, err = meter.Int64Counter("content_documents_seeded_total",
		metric.WithDescription("Content documents created from defaults on first read"),
		metric.WithUnit("{document}")); err != nil {
		return nil, fmt.Errorf("failed to create seeds counter: %w", err)
	}
	if m.updates, err = meter.Int64Counter("content_documents_updated_total",
		metric.WithDescription("Content document updates by outcome"),
		metric.WithUnit("{update}")); err != nil {
		return nil, fmt.Errorf("failed to create updates counter: %w", err)
	}
	if m.uploads, err = meter.Int64Counter("content_images_uploaded_total",
		metric.WithDescription("Image uploads by outcome"),
		metric.WithUnit("{upload}")); err != nil {
		return nil, fmt.Errorf("failed to create uploads counter: %w", err)
	}
	if m.uploadBytes, err = meter.Int64Histogram("content_image_upload_bytes",
		metric.WithDescription("Size of stored images"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(16<<10, 64<<10, 256<<10, 1<<20, 4<<20, 10<<20)); err != nil {
		return nil, fmt.Errorf("failed to create upload size histogram: %w", err)
	}
	if m.cacheHits, err = meter.Int64Counter("content_cache_hits_total",
		metric.WithDescription("Content reads served from the cache"),
		metric.WithUnit("{read}")); err != nil {
		return nil, fmt.Errorf("failed to create cache hit counter: %w", err)
	}
	if m.cacheMisses, err = meter.Int64Counter("content_cache_misses_total",
		metric.WithDescription("Content reads that went to the database"),
		metric.WithUnit("{read}")); err != nil {
		return nil, fmt.Errorf("failed to create cache miss counter: %w", err)
	}
	return m, nil
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// DocumentSeeded counts a document created from defaults
func (m *ContentMetrics) DocumentSeeded(ctx context.Context, kind string) {
	m.seeds.Add(ctx, 1, metric.WithAttributes(AttrContentKind.String(kind)))
}

// DocumentUpdated counts an update attempt
func (m *ContentMetrics) DocumentUpdated(ctx context.Context, kind string, err error) {
	m.updates.Add(ctx, 1, metric.WithAttributes(AttrContentKind.String(kind), AttrOutcome.String(outcome(err))))
}

// ImageUploaded counts an upload attempt and records the size of stored images
func (m *ContentMetrics) ImageUploaded(ctx context.Context, kind string, size int64, err error) {
	attrs := metric.WithAttributes(AttrContentKind.String(kind), AttrOutcome.String(outcome(err)))
	m.uploads.Add(ctx, 1, attrs)
	if err == nil {
		m.uploadBytes.Record(ctx, size, metric.WithAttributes(AttrContentKind.String(kind)))
	}
}

// CacheLookup counts a cache hit or miss
func (m *ContentMetrics) CacheLookup(ctx context.Context, kind string, hit bool) {
	attrs := metric.WithAttributes(AttrContentKind.String(kind))
	if hit {
		m.cacheHits.Add(ctx, 1, attrs)
		return
	}
	m.cacheMisses.Add(ctx, 1, attrs)
}

// HTTPMetrics holds the request instruments used by the HTTP middleware
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the HTTP request instruments on meter
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter("http_server_requests_total",
		metric.WithDescription("HTTP requests by route and status"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}
	duration, err := meter.Float64Histogram("http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	inFlight, err := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Requests currently being served"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-flight counter: %w", err)
	}
	return &HTTPMetrics{requests: requests, duration: duration, inFlight: inFlight}, nil
}

// Start marks a request as in flight and returns the function that records its end
func (m *HTTPMetrics) Start(ctx context.Context, method string) func(route string, status int) {
	start := time.Now()
	m.inFlight.Add(ctx, 1, metric.WithAttributes(AttrHTTPMethod.String(method)))
	return func(route string, status int) {
		m.inFlight.Add(ctx, -1, metric.WithAttributes(AttrHTTPMethod.String(method)))
		attrs := metric.WithAttributes(
			AttrHTTPMethod.String(method),
			AttrHTTPRoute.String(route),
			AttrHTTPStatus.Int(status),
		)
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
