package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/glowetsu/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Collector: testCollector,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestContentMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewContentMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.DocumentSeeded(ctx, "carousel")
	m.DocumentUpdated(ctx, "carousel", nil)
	m.DocumentUpdated(ctx, "carousel", errors.New("db down"))
	m.ImageUploaded(ctx, "about_us", 2048, nil)
	m.ImageUploaded(ctx, "about_us", 0, errors.New("s3 down"))
	m.CacheLookup(ctx, "carousel", true)
	m.CacheLookup(ctx, "carousel", false)
	m.CacheLookup(ctx, "carousel", false)

	metrics := collect(t, reader)
	kind := telemetry.AttrContentKind.String("carousel")

	assert.Equal(t, int64(1), sumFor(t, metrics["content_documents_seeded_total"], kind))
	assert.Equal(t, int64(1), sumFor(t, metrics["content_documents_updated_total"],
		kind, telemetry.AttrOutcome.String(telemetry.OutcomeSuccess)))
	assert.Equal(t, int64(1), sumFor(t, metrics["content_documents_updated_total"],
		kind, telemetry.AttrOutcome.String(telemetry.OutcomeFailure)))
	assert.Equal(t, int64(1), sumFor(t, metrics["content_cache_hits_total"], kind))
	assert.Equal(t, int64(2), sumFor(t, metrics["content_cache_misses_total"], kind))

	about := telemetry.AttrContentKind.String("about_us")
	assert.Equal(t, int64(1), sumFor(t, metrics["content_images_uploaded_total"],
		about, telemetry.AttrOutcome.String(telemetry.OutcomeFailure)))

	hist, ok := metrics["content_image_upload_bytes"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.Equal(t, int64(2048), hist.DataPoints[0].Sum)
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewHTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	done := m.Start(ctx, "PUT")
	inFlight := collect(t, reader)["http_server_active_requests"]
	assert.Equal(t, int64(1), sumFor(t, inFlight, telemetry.AttrHTTPMethod.String("PUT")))

	done("/api/content/carousel", 200)

	metrics := collect(t, reader)
	assert.Equal(t, int64(0), sumFor(t, metrics["http_server_active_requests"], telemetry.AttrHTTPMethod.String("PUT")))
	assert.Equal(t, int64(1), sumFor(t, metrics["http_server_requests_total"],
		telemetry.AttrHTTPMethod.String("PUT"),
		telemetry.AttrHTTPRoute.String("/api/content/carousel"),
		telemetry.AttrHTTPStatus.Int(200),
	))

	hist, ok := metrics["http_server_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}
