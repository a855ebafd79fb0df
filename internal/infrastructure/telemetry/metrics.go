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

const defaultExportInterval = time.Minute

// Metric attribute keys
var (
	AttrModel    = attribute.Key("model")
	AttrProvider = attribute.Key("provider")
	AttrFallback = attribute.Key("fallback")
	AttrPlatform = attribute.Key("platform")
	AttrStatus   = attribute.Key("status")
	AttrSource   = attribute.Key("source")
	AttrTable    = attribute.Key("table")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
)

// Histogram bucket boundaries in seconds. Views select them by
// instrument name.
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	ExternalCallBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}
)

// Histogram names matched by the bucket views
const (
	HTTPDurationMetric  = "http_server_request_duration_seconds"
	ExternalCallMetric  = "contentgen.external.duration"
	externalCallPattern = "contentgen.*.duration"
)

// MeterProvider owns the SDK meter provider when metrics are exported
type MeterProvider struct {
	sdk    *sdkmetric.MeterProvider
	logger *zap.Logger
}

// NewMeterProvider exports metrics to the OTLP collector when cfg.Enabled.
// Extra readers are attached in either case; with neither, meters come
// from the global no-op provider.
func NewMeterProvider(ctx context.Context, cfg Config, logger *zap.Logger, readers ...sdkmetric.Reader) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}

	if cfg.Enabled {
		exporter, err := otlpMetricExporter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		interval := cfg.MetricsInterval
		if interval <= 0 {
			interval = defaultExportInterval
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}
	if len(readers) == 0 {
		logger.Info("Metrics disabled")
		return mp, nil
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	opts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
		sdkmetric.WithView(bucketViews()...),
	}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	mp.sdk = sdkmetric.NewMeterProvider(opts...)

	if cfg.Enabled {
		otel.SetMeterProvider(mp.sdk)
		logger.Info("Metrics exported over OTLP",
			zap.String("collector_endpoint", cfg.CollectorEndpoint),
			zap.Duration("export_interval", cfg.MetricsInterval),
		)
	}
	return mp, nil
}

func otlpMetricExporter(ctx context.Context, cfg Config) (sdkmetric.Exporter, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return exporter, nil
}

func bucketViews() []sdkmetric.View {
	view := func(name string, bounds []float64) sdkmetric.View {
		return sdkmetric.NewView(
			sdkmetric.Instrument{Name: name, Kind: sdkmetric.InstrumentKindHistogram},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: bounds}},
		)
	}
	return []sdkmetric.View{
		view(HTTPDurationMetric, HTTPDurationBuckets),
		view(externalCallPattern, ExternalCallBuckets),
	}
}

// Meter returns a meter from the SDK provider, or from the global
// provider when metrics are disabled
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.sdk == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.sdk.Meter(name, opts...)
}

// IsEnabled reports whether an SDK provider was built
func (mp *MeterProvider) IsEnabled() bool {
	return mp.sdk != nil
}

// Shutdown flushes pending metrics and stops the provider
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.sdk.Shutdown(ctx); err != nil {
		mp.logger.Error("Error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Counter is an int64 sum instrument
type Counter struct {
	inst metric.Int64Counter
}

// NewCounter registers a counter on meter
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	inst, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{inst: inst}, nil
}

// Add adds n with attrs
func (c *Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	c.inst.Add(ctx, n, metric.WithAttributes(attrs...))
}

// Inc adds one with attrs
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Latency is a histogram of durations in seconds. Bucket boundaries come
// from the provider's views.
type Latency struct {
	inst metric.Float64Histogram
}

// NewLatency registers a latency histogram on meter
func NewLatency(meter metric.Meter, name, description string) (*Latency, error) {
	inst, err := meter.Float64Histogram(name, metric.WithDescription(description), metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return &Latency{inst: inst}, nil
}

// Observe records d with attrs
func (l *Latency) Observe(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	l.inst.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}
