package video

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/video"
	"github.com/contentgen/backend/internal/infrastructure/telemetry"
)

const (
	defaultSoraSeconds = "4"
	defaultSoraSize    = "1280x720"
	defaultKieSeconds  = "5"
	defaultAutoSeconds = 4
)

var (
	speechKeywords = []string{
		"speak", "speaks", "speaking", "talk", "talking", "says", "dialogue",
		"lip-sync", "lip sync", "mouth", "voice", "announce", "presenter",
	}
	cinematicKeywords = []string{
		"realistic", "cinematic", "documentary", "photorealistic",
		"professional", "commercial", "news", "interview",
	}
	artisticKeywords = []string{
		"artistic", "abstract", "surreal", "dreamlike", "fantasy",
		"painting", "watercolor", "anime", "stylized",
	}
)

// RoutedJob is a provider job together with the routing decision
type RoutedJob struct {
	Job      *video.Job
	Provider string
	Model    string
	FellBack bool
}

// RouterOption configures a ModelRouter
type RouterOption func(*ModelRouter)

// WithSoraDefaults overrides the seconds and size sent to Sora when a
// request leaves them empty
func WithSoraDefaults(seconds int, size string) RouterOption {
	return func(r *ModelRouter) {
		if seconds > 0 {
			r.soraSeconds = strconv.Itoa(seconds)
		}
		if size != "" {
			r.soraSize = size
		}
	}
}

// WithRouterMetrics records created videos and provider failures
func WithRouterMetrics(m *telemetry.ContentMetrics) RouterOption {
	return func(r *ModelRouter) {
		r.metrics = m
	}
}

// ModelRouter picks a video model for a prompt and dispatches to the
// provider serving it, falling back to sora-2 when a provider fails
type ModelRouter struct {
	generators  map[string]video.Generator
	soraSeconds string
	soraSize    string
	metrics     *telemetry.ContentMetrics
	logger      *zap.Logger
}

// NewModelRouter creates a router over the three provider clients
func NewModelRouter(sora, veo, wan video.Generator, logger *zap.Logger, opts ...RouterOption) *ModelRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &ModelRouter{
		generators: map[string]video.Generator{
			video.ProviderSora:   sora,
			video.ProviderKieVeo: veo,
			video.ProviderKieWan: wan,
		},
		soraSeconds: defaultSoraSeconds,
		soraSize:    defaultSoraSize,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SelectModel returns requested unless it is "auto", in which case the
// model is chosen from prompt keywords and clip length
func (r *ModelRouter) SelectModel(prompt string, seconds int, requested string) string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested != "" && requested != video.ModelAuto {
		return requested
	}
	if seconds <= 0 {
		seconds = defaultAutoSeconds
	}
	kieLength := seconds == 5 || seconds == 10
	p := strings.ToLower(prompt)

	if containsAny(p, speechKeywords) && kieLength {
		r.logger.Info("Auto-selected model for speech content", zap.String("model", video.ModelWan25))
		return video.ModelWan25
	}
	if containsAny(p, cinematicKeywords) {
		if kieLength {
			r.logger.Info("Auto-selected model for cinematic content", zap.String("model", video.ModelVeo31))
			return video.ModelVeo31
		}
		r.logger.Info("Cinematic model needs 5 or 10 seconds, using sora-2-pro", zap.Int("seconds", seconds))
		return video.ModelSora2Pro
	}
	if containsAny(p, artisticKeywords) {
		r.logger.Info("Auto-selected model for artistic content", zap.String("model", video.ModelSora2Pro))
		return video.ModelSora2Pro
	}
	return video.ModelSora2
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ProviderFor maps a model name to its provider key
func ProviderFor(model string) (string, error) {
	m := strings.ToLower(model)
	switch {
	case m == video.ModelSora2 || m == video.ModelSora2Pro || strings.HasPrefix(m, "sora"):
		return video.ProviderSora, nil
	case m == video.ModelVeo31 || strings.HasPrefix(m, video.ProviderKieVeo):
		return video.ProviderKieVeo, nil
	case m == video.ModelWan25 || strings.HasPrefix(m, video.ProviderKieWan):
		return video.ProviderKieWan, nil
	}
	return "", video.UnsupportedModelError(model)
}

// ServiceFor returns the generator serving model
func (r *ModelRouter) ServiceFor(model string) (video.Generator, error) {
	provider, err := ProviderFor(model)
	if err != nil {
		return nil, err
	}
	return r.Generator(provider)
}

// Generator returns the generator registered under a provider key
func (r *ModelRouter) Generator(provider string) (video.Generator, error) {
	g, ok := r.generators[provider]
	if !ok || g == nil {
		return nil, video.ErrProviderUnavailable
	}
	return g, nil
}

// CreateVideo routes req to a provider. When no provider serves the model
// or the chosen provider fails, the request is retried once on sora-2
// unless sora-2 was the one that failed.
func (r *ModelRouter) CreateVideo(ctx context.Context, req video.CreateRequest) (_ *RoutedJob, err error) {
	seconds, _ := strconv.Atoi(req.Seconds)
	model := r.SelectModel(req.Prompt, seconds, req.Model)
	ctx, span := telemetry.StartStep(ctx, telemetry.StepVideoCreate, telemetry.SpanModel.String(model))
	defer func() { telemetry.EndStep(span, err) }()

	provider, err := ProviderFor(model)
	if err != nil {
		r.logger.Error("No provider serves the requested model", zap.String("model", model), zap.Error(err))
	} else {
		span.SetAttributes(telemetry.SpanProvider.String(provider))
		r.logger.Info("Routing video generation", zap.String("model", model), zap.String("provider", provider))

		var job *video.Job
		job, err = r.create(ctx, provider, model, req)
		if err == nil {
			r.metrics.VideoCreated(ctx, model, provider, false)
			return &RoutedJob{Job: job, Provider: provider, Model: model}, nil
		}
		r.logger.Error("Video provider failed",
			zap.String("model", model),
			zap.String("provider", provider),
			zap.Error(err),
		)
		r.metrics.VideoFailed(ctx, provider)
	}
	if model == video.ModelSora2 {
		return nil, err
	}

	r.logger.Info("Attempting fallback", zap.String("model", video.ModelSora2))
	telemetry.RecordFallback(ctx, model, video.ModelSora2, err)
	job, err := r.create(ctx, video.ProviderSora, video.ModelSora2, req)
	if err != nil {
		r.logger.Error("Fallback provider failed", zap.String("provider", video.ProviderSora), zap.Error(err))
		r.metrics.VideoFailed(ctx, video.ProviderSora)
		return nil, err
	}
	r.metrics.VideoCreated(ctx, video.ModelSora2, video.ProviderSora, true)
	return &RoutedJob{Job: job, Provider: video.ProviderSora, Model: video.ModelSora2, FellBack: true}, nil
}

func (r *ModelRouter) create(ctx context.Context, provider, model string, req video.CreateRequest) (*video.Job, error) {
	gen, err := r.ServiceFor(model)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	job, err := gen.CreateVideo(ctx, r.withDefaults(provider, model, req))
	r.metrics.ExternalCall(ctx, provider, time.Since(start), err)
	return job, err
}

// withDefaults fills provider-specific seconds and size
func (r *ModelRouter) withDefaults(provider, model string, req video.CreateRequest) video.CreateRequest {
	out := req
	out.Model = model
	switch provider {
	case video.ProviderSora:
		if out.Seconds == "" {
			out.Seconds = r.soraSeconds
		}
		if !strings.Contains(out.Size, "x") {
			out.Size = r.soraSize
		}
		out.ImageURL = ""
	default:
		if out.Seconds == "" {
			out.Seconds = defaultKieSeconds
		}
		out.Size = toResolution(out.Size)
		if provider != video.ProviderKieWan {
			out.ImageURL = ""
		}
	}
	return out
}

// toResolution converts a WxH size to the 720p/1080p names Kie.ai accepts
func toResolution(size string) string {
	if strings.Contains(size, "1080") || strings.Contains(size, "1920") {
		return "1080p"
	}
	return "720p"
}

// AvailableModels groups the supported models by provider key
func (r *ModelRouter) AvailableModels() map[string][]string {
	out := make(map[string][]string, len(r.generators))
	for provider, g := range r.generators {
		if g == nil {
			continue
		}
		out[provider] = g.SupportedModels()
	}
	return out
}

// ModelInfo returns catalog information for model
func (r *ModelRouter) ModelInfo(model string) video.ModelInfo {
	return video.LookupModel(model)
}
