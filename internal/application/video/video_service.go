package video

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/publishing"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/domain/video"
	"github.com/contentgen/backend/internal/infrastructure/cache"
	"github.com/contentgen/backend/internal/infrastructure/config"
	"github.com/contentgen/backend/internal/infrastructure/media"
)

const (
	syncBatchSize   = 50
	syncLockKey     = "video-sync"
	defaultLockTTL  = 5 * time.Minute
	videoExt        = ".mp4"
	objectKeyPrefix = "videos/"
)

// Option configures a Service
type Option func(*Service)

// WithLocker guards SyncPending across instances
func WithLocker(l cache.Locker, ttl time.Duration) Option {
	return func(s *Service) {
		s.locker = l
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithObjectStore mirrors downloaded videos to a bucket
func WithObjectStore(o ObjectStore) Option {
	return func(s *Service) {
		s.objects = o
	}
}

// WithFormatter enables platform compatibility checks
func WithFormatter(f *media.Formatter) Option {
	return func(s *Service) {
		s.formatter = f
	}
}

// Service tracks video generations from creation to a local file
type Service struct {
	router    *ModelRouter
	repo      video.Repository
	files     FileStore
	objects   ObjectStore
	formatter *media.Formatter
	locker    cache.Locker
	lockTTL   time.Duration
	cfg       config.VideoConfig
	logger    *zap.Logger
}

// NewService creates a new video Service
func NewService(router *ModelRouter, repo video.Repository, files FileStore, cfg config.VideoConfig, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		router:  router,
		repo:    repo,
		files:   files,
		locker:  cache.NewInMemoryLocker(),
		lockTTL: defaultLockTTL,
		cfg:     cfg,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router exposes the model router for catalog lookups
func (s *Service) Router() *ModelRouter {
	return s.router
}

// AvailableModels lists the models of every configured provider
func (s *Service) AvailableModels() map[string][]string {
	return s.router.AvailableModels()
}

// Create starts a generation and records it
func (s *Service) Create(ctx context.Context, req CreateVideoRequest) (*CreateVideoResponse, error) {
	if err := video.ValidatePrompt(req.Prompt); err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = s.cfg.DefaultModel
	}
	var seconds string
	if req.Seconds > 0 {
		seconds = strconv.Itoa(req.Seconds)
	}

	routed, err := s.router.CreateVideo(ctx, video.CreateRequest{
		Prompt:   strings.TrimSpace(req.Prompt),
		Model:    model,
		Seconds:  seconds,
		Size:     req.Size,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return nil, providerError(err)
	}

	gen := video.NewGeneration(routed.Job, routed.Provider, strings.TrimSpace(req.Prompt), routed.FellBack)
	if gen.Model == "" {
		gen.Model = routed.Model
	}
	if err := s.repo.Save(ctx, gen); err != nil {
		return nil, err
	}
	s.logger.Info("Video generation started",
		zap.String("video_id", gen.ID),
		zap.String("model", gen.Model),
		zap.String("provider", gen.Provider),
		zap.Bool("fell_back", gen.FellBack),
	)
	return &CreateVideoResponse{Job: routed.Job, Video: ToVideoResponse(gen)}, nil
}

// providerError keeps domain errors and wraps transport failures
func providerError(err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.WrapDomainError(shared.CodeExternalService, "Video provider request failed: "+err.Error(), err)
}

// Status returns the record, refreshing it from the provider while it is
// still running
func (s *Service) Status(ctx context.Context, id string) (*VideoResponse, error) {
	gen, err := s.refresh(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVideoResponse(gen)
	return &resp, nil
}

func (s *Service) refresh(ctx context.Context, id string) (*video.Generation, error) {
	gen, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gen.Status.IsTerminal() {
		return gen, nil
	}
	if err := s.poll(ctx, gen); err != nil {
		return nil, providerError(err)
	}
	return gen, nil
}

// poll fetches provider state once and persists it
func (s *Service) poll(ctx context.Context, gen *video.Generation) error {
	g, err := s.router.Generator(gen.Provider)
	if err != nil {
		return err
	}
	job, err := g.GetVideoStatus(ctx, gen.ID)
	if err != nil {
		s.logger.Error("Video status check failed",
			zap.String("video_id", gen.ID),
			zap.String("provider", gen.Provider),
			zap.Error(err),
		)
		return err
	}
	gen.Apply(job, time.Now())
	return s.repo.Save(ctx, gen)
}

// Download stores the rendered file locally and mirrors it to the bucket
// when one is configured
func (s *Service) Download(ctx context.Context, id string) (*DownloadResponse, error) {
	gen, err := s.refresh(ctx, id)
	if err != nil {
		return nil, err
	}
	if !gen.Status.IsSuccess() {
		return nil, video.ErrVideoNotReady
	}
	if err := s.download(ctx, gen); err != nil {
		return nil, err
	}
	return &DownloadResponse{ID: gen.ID, LocalPath: gen.LocalPath, StorageKey: gen.StorageKey}, nil
}

func (s *Service) download(ctx context.Context, gen *video.Generation) error {
	name := FileName(gen.ID)
	path := s.files.Path(name)
	if !s.files.Exists(name) {
		g, err := s.router.Generator(gen.Provider)
		if err != nil {
			return err
		}
		path, err = s.files.Create(name, func(w io.Writer) error {
			n, err := g.DownloadVideoContent(ctx, gen.ID, w, video.DefaultVariant)
			if err == nil {
				s.logger.Info("Video downloaded", zap.String("video_id", gen.ID), zap.Int64("bytes", n))
			}
			return err
		})
		if err != nil {
			s.logger.Error("Video download failed", zap.String("video_id", gen.ID), zap.String("provider", gen.Provider), zap.Error(err))
			return providerError(err)
		}
	}
	gen.LocalPath = path

	if s.objects != nil && s.objects.Enabled() && gen.StorageKey == "" {
		if err := s.mirror(ctx, gen, name); err != nil {
			s.logger.Warn("Failed to mirror video to object storage", zap.String("video_id", gen.ID), zap.Error(err))
		}
	}
	gen.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, gen)
}

func (s *Service) mirror(ctx context.Context, gen *video.Generation, name string) error {
	f, err := s.files.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	key := objectKeyPrefix + name
	if err := s.objects.Upload(ctx, key, f, "video/mp4"); err != nil {
		return err
	}
	gen.StorageKey = key
	return nil
}

// FileName is the local file name of a rendered video
func FileName(id string) string {
	return id + videoExt
}

// Content opens the downloaded file. The caller closes it.
func (s *Service) Content(ctx context.Context, id string) (*os.File, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	name := FileName(id)
	if !s.files.Exists(name) {
		return nil, video.ErrVideoFileNotFound
	}
	return s.files.Open(name)
}

// PresignedURL returns a time-limited link to the mirrored file,
// mirroring it first if needed
func (s *Service) PresignedURL(ctx context.Context, id string) (*PresignedURLResponse, error) {
	if s.objects == nil || !s.objects.Enabled() {
		return nil, ErrObjectStorageDisabled
	}
	gen, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gen.StorageKey == "" {
		if _, err := s.Download(ctx, id); err != nil {
			return nil, err
		}
		if gen, err = s.repo.FindByID(ctx, id); err != nil {
			return nil, err
		}
		if gen.StorageKey == "" {
			return nil, shared.NewDomainError(shared.CodeExternalService, "Video could not be mirrored to object storage")
		}
	}
	url, expiresAt, err := s.objects.Presign(ctx, gen.StorageKey)
	if err != nil {
		return nil, err
	}
	return &PresignedURLResponse{ID: id, URL: url, ExpiresAt: expiresAt}, nil
}

// List returns a page of tracked generations, newest first unless order_by is set
func (s *Service) List(ctx context.Context, filter VideoListFilter) (*shared.Paginated[VideoResponse], error) {
	f := video.Filter{
		Pagination: shared.Pagination{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
		Model:      filter.Model,
	}
	if filter.Status != "" {
		st := video.Status(filter.Status)
		f.Status = &st
	}
	gens, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToVideoResponses(gens), total, f.Page, f.PageSize)
	return &page, nil
}

// Delete removes the record together with its local and mirrored files
func (s *Service) Delete(ctx context.Context, id string) error {
	gen, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.files.Remove(FileName(id)); err != nil {
		s.logger.Warn("Failed to remove local video", zap.String("video_id", id), zap.Error(err))
	}
	if gen.StorageKey != "" && s.objects != nil {
		if err := s.objects.Delete(ctx, gen.StorageKey); err != nil {
			s.logger.Warn("Failed to remove mirrored video", zap.String("video_id", id), zap.Error(err))
		}
	}
	return s.repo.Delete(ctx, id)
}

// Wait polls the provider until the generation finishes or timeout
// elapses. A zero timeout uses the configured maximum.
func (s *Service) Wait(ctx context.Context, id string, timeout time.Duration) (*VideoResponse, error) {
	gen, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g, err := s.router.Generator(gen.Provider)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = s.cfg.MaxPollTimeout
	}

	job, pollErr := video.PollUntilComplete(ctx, g, id, timeout, s.cfg.PollInterval)
	if job != nil {
		gen.Apply(job, time.Now())
		if err := s.repo.Save(ctx, gen); err != nil {
			return nil, err
		}
	}
	if pollErr != nil {
		return nil, providerError(pollErr)
	}
	resp := ToVideoResponse(gen)
	return &resp, nil
}

// SyncPending polls every unfinished generation once and downloads the
// ones that completed. Completed generations left without a local file by
// an earlier run are downloaded again. Only one instance runs it at a time.
func (s *Service) SyncPending(ctx context.Context) (*SyncResult, error) {
	ok, err := s.locker.Acquire(ctx, syncLockKey, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Debug("Video sync already running elsewhere")
		return &SyncResult{}, nil
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), syncLockKey); err != nil {
			s.logger.Warn("Failed to release video sync lock", zap.Error(err))
		}
	}()

	pending, err := s.repo.ListPending(ctx, syncBatchSize)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	for i := range pending {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		gen := &pending[i]
		result.Checked++
		awaitingDownload := gen.Status.IsSuccess()
		if !awaitingDownload {
			if err := s.poll(ctx, gen); err != nil {
				continue
			}
		}
		switch {
		case gen.Status.IsSuccess():
			if !awaitingDownload {
				result.Completed++
			}
			if err := s.download(ctx, gen); err != nil {
				continue
			}
			result.Downloaded++
		case gen.Status.IsTerminal():
			result.Failed++
			s.logger.Warn("Video generation failed",
				zap.String("video_id", gen.ID),
				zap.String("error", gen.ErrorMessage),
			)
		}
	}
	if result.Checked > 0 {
		s.logger.Info("Video sync finished",
			zap.Int("checked", result.Checked),
			zap.Int("completed", result.Completed),
			zap.Int("failed", result.Failed),
		)
	}
	return result, nil
}

// ModelInfo returns catalog information and the cost of a clip of the
// given length. Models outside the catalog report an unknown provider
// and a zero cost.
func (s *Service) ModelInfo(model string, seconds int) *ModelInfoResponse {
	info := s.router.ModelInfo(model)
	if seconds <= 0 {
		seconds = defaultAutoSeconds
	}
	return &ModelInfoResponse{
		ModelInfo:     info,
		Seconds:       seconds,
		EstimatedCost: video.EstimateCost(model, seconds),
	}
}

// Compatibility probes the downloaded file against a platform's limits
func (s *Service) Compatibility(ctx context.Context, id, platform string) (*CompatibilityResponse, error) {
	if s.formatter == nil {
		return nil, shared.NewDomainError(shared.CodeNotConfigured, "Video formatter is not configured")
	}
	p, err := publishing.ParsePlatform(platform)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	name := FileName(id)
	if !s.files.Exists(name) {
		return nil, video.ErrVideoFileNotFound
	}
	return &CompatibilityResponse{
		ID:            id,
		Platform:      string(p),
		Compatibility: s.formatter.CheckCompatibility(ctx, s.files.Path(name), p),
	}, nil
}
