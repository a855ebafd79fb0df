package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp, err := NewMeterProvider(context.Background(), Config{ServiceName: "contentgen-test"}, zap.NewNop(), reader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewContentMetrics_NilMeter(t *testing.T) {
	_, err := NewContentMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestContentMetrics_Record(t *testing.T) {
	reader, mp := newTestMeter(t)
	m, err := NewContentMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.VideoCreated(ctx, "sora-2", "sora", false)
	m.VideoCreated(ctx, "sora-2", "sora", true)
	m.VideoFailed(ctx, "kie-veo")
	m.Published(ctx, "youtube", "published")
	m.IdeasGenerated(ctx, 5)
	m.IdeasGenerated(ctx, 0)
	m.NewsSaved(ctx, "newsapi", 3)
	m.ExternalCall(ctx, "anthropic", 1500*time.Millisecond, nil)
	m.ExternalCall(ctx, "anthropic", time.Second, errors.New("timeout"))

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, data["contentgen.videos.created"]))
	assert.Equal(t, int64(1), sumOf(t, data["contentgen.videos.failed"]))
	assert.Equal(t, int64(1), sumOf(t, data["contentgen.publish.total"]))
	assert.Equal(t, int64(5), sumOf(t, data["contentgen.ideas.generated"]))
	assert.Equal(t, int64(3), sumOf(t, data["contentgen.news.saved"]))

	hist, ok := data["contentgen.external.duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2, "ok and error are separate series")
	assert.Equal(t, ExternalCallBuckets, hist.DataPoints[0].Bounds)

	created := data["contentgen.videos.created"].(metricdata.Sum[int64])
	assert.Len(t, created.DataPoints, 2, "fallback attribute splits the series")
}

func TestContentMetrics_NilIsNoop(t *testing.T) {
	var m *ContentMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.VideoCreated(ctx, "sora-2", "sora", false)
		m.VideoFailed(ctx, "sora")
		m.Published(ctx, "youtube", "failed")
		m.IdeasGenerated(ctx, 1)
		m.NewsSaved(ctx, "gnews", 1)
		m.ExternalCall(ctx, "gemini", time.Second, nil)
	})
}
