package publishing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/publishing"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/infrastructure/cache"
	"github.com/contentgen/backend/internal/infrastructure/telemetry"
	"github.com/contentgen/backend/internal/infrastructure/youtube"
)

const (
	thumbnailFileKey   = "thumbnail_file"
	channelTitleKey    = "channel_title"
	dueBatchSize       = 20
	analyticsBatchSize = 50
	analyticsLockKey   = "analytics-refresh"
	publishLockPrefix  = "publish:"
	defaultLockTTL     = 10 * time.Minute
)

// Uploader is the part of the YouTube client the publish service uses
type Uploader interface {
	UploadVideo(ctx context.Context, path string, meta publishing.Metadata, thumbnailPath string) (*youtube.UploadResult, error)
	DeleteVideo(ctx context.Context, videoID string) error
	GetVideoStats(ctx context.Context, videoID string) (*youtube.VideoStats, error)
}

// VideoFiles locates rendered videos on local disk
type VideoFiles interface {
	Path(name string) string
	Exists(name string) bool
}

// PublishOption configures a PublishService
type PublishOption func(*PublishService)

// WithScheduling defers uploads whose scheduled_at lies in the future
func WithScheduling(enabled bool) PublishOption {
	return func(s *PublishService) {
		s.scheduling = enabled
	}
}

// WithPublishLocker guards scheduled uploads and analytics refreshes
// across instances
func WithPublishLocker(l cache.Locker, ttl time.Duration) PublishOption {
	return func(s *PublishService) {
		s.locker = l
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithPublishMetrics records publish outcomes
func WithPublishMetrics(m *telemetry.ContentMetrics) PublishOption {
	return func(s *PublishService) {
		s.metrics = m
	}
}

// PublishService uploads rendered videos to platforms and tracks the
// resulting records
type PublishService struct {
	repo       publishing.PublishedVideoRepository
	uploader   Uploader
	files      VideoFiles
	locker     cache.Locker
	lockTTL    time.Duration
	scheduling bool
	metrics    *telemetry.ContentMetrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewPublishService creates a new PublishService
func NewPublishService(repo publishing.PublishedVideoRepository, uploader Uploader, files VideoFiles, logger *zap.Logger, opts ...PublishOption) *PublishService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PublishService{
		repo:     repo,
		uploader: uploader,
		files:    files,
		locker:   cache.NewInMemoryLocker(),
		lockTTL:  defaultLockTTL,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// locateVideo finds {id}.mp4 or the older {id}_video.mp4 layout
func (s *PublishService) locateVideo(videoID string) (string, error) {
	for _, name := range []string{videoID + ".mp4", videoID + "_video.mp4"} {
		if s.files.Exists(name) {
			return s.files.Path(name), nil
		}
	}
	return "", publishing.VideoFileNotFoundError(videoID)
}

// PublishYouTube uploads a video to YouTube, or stores it as scheduled
// when scheduling is enabled and scheduled_at is in the future
func (s *PublishService) PublishYouTube(ctx context.Context, req PublishRequest) (*PublishResponse, error) {
	platform, err := publishing.ParsePlatform(req.Platform)
	if err != nil {
		return nil, err
	}
	if platform != publishing.PlatformYouTube {
		return nil, publishing.ErrYouTubeOnly
	}
	path, err := s.locateVideo(req.VideoID)
	if err != nil {
		return nil, err
	}

	record, err := publishing.NewPublishedVideo(req.VideoID, platform, req.Metadata.ToDomain(), req.IdeaID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if s.scheduling && req.ScheduledAt != nil && req.ScheduledAt.After(now) {
		record.Schedule(*req.ScheduledAt)
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, err
		}
		s.metrics.Published(ctx, string(platform), string(publishing.StatusScheduled))
		s.logger.Info("Video scheduled for publishing",
			zap.String("video_id", req.VideoID),
			zap.Time("scheduled_at", *record.ScheduledAt),
		)
		resp := ToPublishResponse(record)
		return &resp, nil
	}

	if req.ScheduledAt != nil {
		t := req.ScheduledAt.UTC()
		record.ScheduledAt = &t
	}
	if err := record.MarkPublishing(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}
	if err := s.upload(ctx, record, path); err != nil {
		return nil, err
	}
	resp := ToPublishResponse(record)
	return &resp, nil
}

// upload sends a record in publishing state to YouTube and persists the
// outcome
func (s *PublishService) upload(ctx context.Context, record *publishing.PublishedVideo, path string) (err error) {
	ctx, span := telemetry.StartStep(ctx, telemetry.StepPublishUpload,
		telemetry.SpanVideoID.String(record.VideoID),
		telemetry.SpanPublishID.String(record.ID.String()),
	)
	defer func() { telemetry.EndStep(span, err) }()

	s.logger.Info("Publishing video to YouTube", zap.String("video_id", record.VideoID), zap.String("publish_id", record.ID.String()))

	start := time.Now()
	result, err := s.uploader.UploadVideo(ctx, path, record.Metadata(), s.thumbnailPath(record))
	s.metrics.ExternalCall(ctx, string(record.Platform), time.Since(start), err)
	if err != nil {
		s.logger.Error("Failed to publish to YouTube", zap.String("video_id", record.VideoID), zap.Error(err))
		record.MarkFailed(err)
		if saveErr := s.repo.Save(context.WithoutCancel(ctx), record); saveErr != nil {
			s.logger.Error("Failed to record publish failure", zap.Error(saveErr))
		}
		s.metrics.Published(ctx, string(record.Platform), string(publishing.StatusFailed))
		return publishing.PublishFailedError(err)
	}

	record.MarkPublished(result.VideoID, result.URL, s.now())
	if err := s.repo.Save(ctx, record); err != nil {
		return err
	}
	s.metrics.Published(ctx, string(record.Platform), string(publishing.StatusPublished))
	s.logger.Info("Video published to YouTube", zap.String("url", result.URL))
	return nil
}

func (s *PublishService) thumbnailPath(record *publishing.PublishedVideo) string {
	name, _ := record.PlatformMetadata[thumbnailFileKey].(string)
	if name == "" || !s.files.Exists(name) {
		return ""
	}
	return s.files.Path(name)
}

// BulkPublish publishes one video to each requested platform with
// per-platform overrides. It fails only when every platform failed.
func (s *PublishService) BulkPublish(ctx context.Context, req BulkPublishRequest) ([]PublishResponse, error) {
	var (
		results []PublishResponse
		errs    []string
	)
	for _, raw := range req.Platforms {
		platform, err := publishing.ParsePlatform(raw)
		if err != nil {
			errs = append(errs, raw+": "+err.Error())
			continue
		}
		meta, err := req.Metadata.withOverrides(req.PlatformOverrides[string(platform)])
		if err != nil {
			errs = append(errs, string(platform)+": invalid overrides: "+err.Error())
			continue
		}
		if platform != publishing.PlatformYouTube {
			errs = append(errs, string(platform)+": Not yet implemented")
			continue
		}

		resp, err := s.PublishYouTube(ctx, PublishRequest{
			VideoID:     req.VideoID,
			Platform:    string(platform),
			Metadata:    meta,
			ScheduledAt: req.ScheduledAt,
		})
		if err != nil {
			s.logger.Error("Failed to publish", zap.String("platform", string(platform)), zap.Error(err))
			errs = append(errs, string(platform)+": "+err.Error())
			continue
		}
		results = append(results, *resp)
	}

	if len(results) == 0 {
		return nil, shared.NewDomainError(shared.CodeInternal, "All platforms failed. Errors: "+strings.Join(errs, "; "))
	}
	if len(errs) > 0 {
		s.logger.Warn("Bulk publish partially failed", zap.Strings("errors", errs))
	}
	return results, nil
}

// List returns a page of publication records, newest first unless order_by is set
func (s *PublishService) List(ctx context.Context, filter PublishListFilter) (*shared.Paginated[PublishResponse], error) {
	f := publishing.Filter{
		Pagination: shared.Pagination{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
		VideoID:    filter.VideoID,
	}
	if filter.Platform != "" {
		p, err := publishing.ParsePlatform(filter.Platform)
		if err != nil {
			return nil, err
		}
		f.Platform = &p
	}
	if filter.Status != "" {
		st := publishing.Status(filter.Status)
		if !st.IsValid() {
			return nil, shared.InvalidInputf("unknown status %q", filter.Status)
		}
		f.Status = &st
	}
	if filter.IdeaID != "" {
		id, err := shared.ParseID(filter.IdeaID)
		if err != nil {
			return nil, err
		}
		f.IdeaID = &id
	}

	videos, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToPublishResponses(videos), total, f.Page, f.PageSize)
	return &page, nil
}

// Get retrieves a publication record
func (s *PublishService) Get(ctx context.Context, id uuid.UUID) (*PublishResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPublishResponse(v)
	return &resp, nil
}

// Delete removes a record and optionally the uploaded video. A platform
// failure does not stop the record from being deleted.
func (s *PublishService) Delete(ctx context.Context, id uuid.UUID, fromPlatform bool) (*DeleteResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fromPlatform && v.PlatformVideoID != "" && v.Platform == publishing.PlatformYouTube {
		if err := s.uploader.DeleteVideo(ctx, v.PlatformVideoID); err != nil {
			s.logger.Error("Failed to delete from platform",
				zap.String("platform_video_id", v.PlatformVideoID),
				zap.Error(err),
			)
		} else {
			s.logger.Info("Deleted video from YouTube", zap.String("platform_video_id", v.PlatformVideoID))
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &DeleteResponse{ID: id, Deleted: true}, nil
}

// Analytics returns the engagement counters of a published video,
// fetching fresh ones first when refresh is set. A failed refresh falls
// back to the cached values.
func (s *PublishService) Analytics(ctx context.Context, id uuid.UUID, refresh bool) (*AnalyticsSnapshot, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.PlatformVideoID == "" {
		return nil, publishing.ErrNotPublishedYet
	}
	if refresh {
		if err := s.refreshStats(ctx, v); err != nil {
			s.logger.Error("Failed to fetch analytics", zap.String("publish_id", id.String()), zap.Error(err))
		}
	}
	return &AnalyticsSnapshot{
		PublishID:       v.ID,
		Platform:        string(v.Platform),
		PlatformVideoID: v.PlatformVideoID,
		Views:           v.Views,
		Likes:           v.Likes,
		Comments:        v.Comments,
		Shares:          v.Shares,
		EngagementRate:  v.EngagementRate(),
		Timestamp:       v.AnalyticsTimestamp(),
	}, nil
}

func (s *PublishService) refreshStats(ctx context.Context, v *publishing.PublishedVideo) error {
	if v.Platform != publishing.PlatformYouTube {
		return publishing.UnsupportedPlatformError(v.Platform)
	}
	stats, err := s.uploader.GetVideoStats(ctx, v.PlatformVideoID)
	if err != nil {
		return err
	}
	v.UpdateAnalytics(stats.Stats, s.now())
	return s.repo.Save(ctx, v)
}

// Retry republishes a failed record with its stored metadata. The failed
// record is replaced by the new attempt.
func (s *PublishService) Retry(ctx context.Context, id uuid.UUID) (*PublishResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.CanRetry() {
		return nil, publishing.RetryNotAllowedError(v.Status)
	}
	if v.Platform != publishing.PlatformYouTube {
		return nil, publishing.UnsupportedPlatformError(v.Platform)
	}

	req := PublishRequest{
		VideoID:  v.VideoID,
		Platform: string(v.Platform),
		Metadata: MetadataInputFrom(v),
		IdeaID:   v.IdeaID,
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.PublishYouTube(ctx, req)
}

// PublishDue uploads scheduled records whose time has come. Each record is
// locked so that concurrent instances never upload it twice.
func (s *PublishService) PublishDue(ctx context.Context) (_ *PublishDueResult, err error) {
	ctx, span := telemetry.StartStep(ctx, telemetry.StepPublishDue)
	defer func() { telemetry.EndStep(span, err) }()

	now := s.now()
	due, err := s.repo.ListDue(ctx, now, dueBatchSize)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(telemetry.SpanCount.Int(len(due)))

	result := &PublishDueResult{Due: len(due)}
	for i := range due {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		record := &due[i]
		key := publishLockPrefix + record.ID.String()
		ok, err := s.locker.Acquire(ctx, key, s.lockTTL)
		if err != nil || !ok {
			if err != nil {
				s.logger.Warn("Failed to acquire publish lock", zap.String("publish_id", record.ID.String()), zap.Error(err))
			}
			result.Skipped++
			continue
		}

		if s.publishScheduled(ctx, record) {
			result.Published++
		} else {
			result.Failed++
		}
		if err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("Failed to release publish lock", zap.String("publish_id", record.ID.String()), zap.Error(err))
		}
	}
	if result.Due > 0 {
		s.logger.Info("Scheduled publishing finished",
			zap.Int("due", result.Due),
			zap.Int("published", result.Published),
			zap.Int("failed", result.Failed),
			zap.Int("skipped", result.Skipped),
		)
	}
	return result, nil
}

func (s *PublishService) publishScheduled(ctx context.Context, record *publishing.PublishedVideo) bool {
	if record.Platform != publishing.PlatformYouTube {
		s.fail(ctx, record, publishing.UnsupportedPlatformError(record.Platform))
		return false
	}
	path, err := s.locateVideo(record.VideoID)
	if err != nil {
		s.fail(ctx, record, err)
		return false
	}
	if err := record.MarkPublishing(); err != nil {
		s.logger.Warn("Skipping scheduled record", zap.String("publish_id", record.ID.String()), zap.Error(err))
		return false
	}
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to save publishing state", zap.Error(err))
		return false
	}
	return s.upload(ctx, record, path) == nil
}

func (s *PublishService) fail(ctx context.Context, record *publishing.PublishedVideo, cause error) {
	s.logger.Error("Scheduled publish failed", zap.String("publish_id", record.ID.String()), zap.Error(cause))
	record.MarkFailed(cause)
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to record publish failure", zap.Error(err))
	}
	s.metrics.Published(ctx, string(record.Platform), string(publishing.StatusFailed))
}

// RefreshAnalytics updates the counters of the published YouTube videos
// that were refreshed least recently
func (s *PublishService) RefreshAnalytics(ctx context.Context) (*AnalyticsRefreshResult, error) {
	ok, err := s.locker.Acquire(ctx, analyticsLockKey, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &AnalyticsRefreshResult{}, nil
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), analyticsLockKey); err != nil {
			s.logger.Warn("Failed to release analytics lock", zap.Error(err))
		}
	}()

	videos, err := s.repo.ListForAnalytics(ctx, publishing.PlatformYouTube, analyticsBatchSize)
	if err != nil {
		return nil, err
	}
	result := &AnalyticsRefreshResult{}
	for i := range videos {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Checked++
		if err := s.refreshStats(ctx, &videos[i]); err != nil {
			result.Failed++
			if !errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("Analytics refresh failed", zap.String("publish_id", videos[i].ID.String()), zap.Error(err))
			}
			continue
		}
		result.Updated++
	}
	return result, nil
}
