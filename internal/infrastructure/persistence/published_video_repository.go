package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contentgen/backend/internal/domain/publishing"
	"github.com/contentgen/backend/internal/infrastructure/persistence/models"
)

// GormPublishedVideoRepository implements publishing.PublishedVideoRepository using GORM
type GormPublishedVideoRepository struct {
	db *gorm.DB
}

// NewGormPublishedVideoRepository creates a new GormPublishedVideoRepository
func NewGormPublishedVideoRepository(db *gorm.DB) *GormPublishedVideoRepository {
	return &GormPublishedVideoRepository{db: db}
}

// FindByID finds a publication record by its ID
func (r *GormPublishedVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*publishing.PublishedVideo, error) {
	var model models.PublishedVideoModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, publishing.ErrPublishedVideoNotFound)
	}
	return model.ToDomain(), nil
}

// List returns a page of publication records, newest first, and the total match count
func (r *GormPublishedVideoRepository) List(ctx context.Context, filter publishing.Filter) ([]publishing.PublishedVideo, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PublishedVideoModel{})
	if filter.Platform != nil {
		query = query.Where("platform = ?", string(*filter.Platform))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.VideoID != "" {
		query = query.Where("video_id = ?", filter.VideoID)
	}
	if filter.IdeaID != nil {
		query = query.Where("idea_id = ?", *filter.IdeaID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PublishedVideoModel
	if err := orderAndPaginate(query, filter.Pagination, PublishedVideoSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toPublishedVideos(rows), total, nil
}

// ListDue returns scheduled records whose scheduled_at is at or before now
func (r *GormPublishedVideoRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]publishing.PublishedVideo, error) {
	var rows []models.PublishedVideoModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", string(publishing.StatusScheduled), now.UTC()).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPublishedVideos(rows), nil
}

// ListForAnalytics returns published records on platform, least recently refreshed first
func (r *GormPublishedVideoRepository) ListForAnalytics(ctx context.Context, platform publishing.Platform, limit int) ([]publishing.PublishedVideo, error) {
	var rows []models.PublishedVideoModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND platform = ? AND platform_video_id IS NOT NULL", string(publishing.StatusPublished), string(platform)).
		Order("CASE WHEN last_analytics_update IS NULL THEN 0 ELSE 1 END, last_analytics_update ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPublishedVideos(rows), nil
}

// Save inserts or updates a publication record
func (r *GormPublishedVideoRepository) Save(ctx context.Context, v *publishing.PublishedVideo) error {
	return r.db.WithContext(ctx).Save(models.PublishedVideoModelFromDomain(v)).Error
}

// Delete removes a publication record
func (r *GormPublishedVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PublishedVideoModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return publishing.ErrPublishedVideoNotFound
	}
	return nil
}

func toPublishedVideos(rows []models.PublishedVideoModel) []publishing.PublishedVideo {
	out := make([]publishing.PublishedVideo, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ publishing.PublishedVideoRepository = (*GormPublishedVideoRepository)(nil)
