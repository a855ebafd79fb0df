package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// ContentMetrics records pipeline activity: news ingestion, idea generation,
// video generation and publishing. A nil *ContentMetrics is a valid no-op.
type ContentMetrics struct {
	videosCreated  *Counter
	videosFailed   *Counter
	publishTotal   *Counter
	ideasGenerated *Counter
	newsSaved      *Counter
	externalCalls  *Latency
}

// NewContentMetrics registers the instruments on meter
func NewContentMetrics(meter metric.Meter) (*ContentMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   ContentMetrics
		err error
	)
	if m.videosCreated, err = NewCounter(meter, "contentgen.videos.created",
		"Video generation jobs accepted by a provider", "{job}"); err != nil {
		return nil, err
	}
	if m.videosFailed, err = NewCounter(meter, "contentgen.videos.failed",
		"Video generation requests rejected by a provider", "{request}"); err != nil {
		return nil, err
	}
	if m.publishTotal, err = NewCounter(meter, "contentgen.publish.total",
		"Publish attempts by platform and outcome", "{attempt}"); err != nil {
		return nil, err
	}
	if m.ideasGenerated, err = NewCounter(meter, "contentgen.ideas.generated",
		"Video ideas saved from language model output", "{idea}"); err != nil {
		return nil, err
	}
	if m.newsSaved, err = NewCounter(meter, "contentgen.news.saved",
		"News articles stored by source", "{article}"); err != nil {
		return nil, err
	}
	if m.externalCalls, err = NewLatency(meter, ExternalCallMetric,
		"Latency of calls to external providers"); err != nil {
		return nil, err
	}
	return &m, nil
}

// VideoCreated counts an accepted generation job
func (m *ContentMetrics) VideoCreated(ctx context.Context, model, provider string, fellBack bool) {
	if m == nil {
		return
	}
	m.videosCreated.Inc(ctx, AttrModel.String(model), AttrProvider.String(provider), AttrFallback.Bool(fellBack))
}

// VideoFailed counts a provider rejection
func (m *ContentMetrics) VideoFailed(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.videosFailed.Inc(ctx, AttrProvider.String(provider))
}

// Published counts a publish attempt with its resulting status
func (m *ContentMetrics) Published(ctx context.Context, platform, status string) {
	if m == nil {
		return
	}
	m.publishTotal.Inc(ctx, AttrPlatform.String(platform), AttrStatus.String(status))
}

// IdeasGenerated counts n saved ideas
func (m *ContentMetrics) IdeasGenerated(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ideasGenerated.Add(ctx, int64(n))
}

// NewsSaved counts n stored articles from source
func (m *ContentMetrics) NewsSaved(ctx context.Context, source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.newsSaved.Add(ctx, int64(n), AttrSource.String(source))
}

// ExternalCall records how long a provider call took and whether it failed
func (m *ContentMetrics) ExternalCall(ctx context.Context, provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.externalCalls.Observe(ctx, elapsed, AttrProvider.String(provider), AttrStatus.String(status))
}
