package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestNewMeterProvider_NoReaders(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), Config{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestNewMeterProvider_OTLP(t *testing.T) {
	cfg := Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		ServiceName:       "contentgen-test",
		Insecure:          true,
		MetricsInterval:   time.Hour,
	}
	mp, err := NewMeterProvider(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, mp.IsEnabled())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = mp.Shutdown(ctx)
}

func TestCounter(t *testing.T) {
	reader, mp := newTestMeter(t)
	c, err := NewCounter(mp.Meter("test"), "contentgen.test.uploads", "Uploads", "{upload}")
	require.NoError(t, err)

	ctx := context.Background()
	c.Add(ctx, 5, AttrPlatform.String("youtube"))
	c.Inc(ctx, AttrPlatform.String("youtube"))

	assert.Equal(t, int64(6), sumOf(t, collect(t, reader)["contentgen.test.uploads"]))
}

func TestLatency_BucketViews(t *testing.T) {
	tests := []struct {
		name   string
		bounds []float64
	}{
		{HTTPDurationMetric, HTTPDurationBuckets},
		{ExternalCallMetric, ExternalCallBuckets},
		{"contentgen.render.duration", ExternalCallBuckets},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, mp := newTestMeter(t)
			l, err := NewLatency(mp.Meter("test"), tt.name, "latency")
			require.NoError(t, err)

			l.Observe(context.Background(), 250*time.Millisecond, AttrProvider.String("sora"))
			l.Observe(context.Background(), 3*time.Second, AttrProvider.String("sora"))

			hist, ok := collect(t, reader)[tt.name].(metricdata.Histogram[float64])
			require.True(t, ok)
			require.Len(t, hist.DataPoints, 1)
			assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
			assert.InDelta(t, 3.25, hist.DataPoints[0].Sum, 0.0001)
			assert.Equal(t, tt.bounds, hist.DataPoints[0].Bounds)
		})
	}
}
