package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for pipeline step spans
const TracerName = "github.com/contentgen/backend/pipeline"

// Pipeline steps. Span names follow {stage}.{action}.
const (
	StepNewsFetch     = "news.fetch"
	StepIdeasGenerate = "ideas.generate"
	StepVideoCreate   = "video.create"
	StepPublishUpload = "publish.upload"
	StepPublishDue    = "publish.due"
)

// EventProviderFallback is recorded when a video request is retried on
// the fallback model
const EventProviderFallback = "provider_fallback"

// Span attribute keys
var (
	SpanArticleID  = attribute.Key("contentgen.article_id")
	SpanVideoID    = attribute.Key("contentgen.video_id")
	SpanPublishID  = attribute.Key("contentgen.publish_id")
	SpanModel      = attribute.Key("contentgen.video.model")
	SpanProvider   = attribute.Key("contentgen.video.provider")
	SpanNewsSource = attribute.Key("contentgen.news.source")
	SpanCount      = attribute.Key("contentgen.count")
)

// StartStep opens an internal span for a pipeline step. Close it with
// EndStep.
func StartStep(ctx context.Context, step string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, step,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndStep records err, if any, and ends the span
func EndStep(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RecordFallback notes on the active span that model failed with cause
// and the request moved to fallback
func RecordFallback(ctx context.Context, model, fallback string, cause error) {
	span := trace.SpanFromContext(ctx)
	attrs := []attribute.KeyValue{
		attribute.String("failed_model", model),
		attribute.String("fallback_model", fallback),
	}
	if cause != nil {
		attrs = append(attrs, attribute.String("error", cause.Error()))
	}
	span.AddEvent(EventProviderFallback, trace.WithAttributes(attrs...))
}

// TraceID returns the active trace ID, or "" outside a sampled span
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
