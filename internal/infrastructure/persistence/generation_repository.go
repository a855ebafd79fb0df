package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/contentgen/backend/internal/domain/video"
	"github.com/contentgen/backend/internal/infrastructure/persistence/models"
)

var pendingStatuses = []string{string(video.StatusQueued), string(video.StatusInProgress)}

// GormGenerationRepository implements video.Repository using GORM
type GormGenerationRepository struct {
	db *gorm.DB
}

// NewGormGenerationRepository creates a new GormGenerationRepository
func NewGormGenerationRepository(db *gorm.DB) *GormGenerationRepository {
	return &GormGenerationRepository{db: db}
}

// FindByID finds a generation by provider job id
func (r *GormGenerationRepository) FindByID(ctx context.Context, id string) (*video.Generation, error) {
	var model models.GenerationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, video.ErrGenerationNotFound)
	}
	return model.ToDomain(), nil
}

// List returns a page of generations, newest first, and the total match count
func (r *GormGenerationRepository) List(ctx context.Context, filter video.Filter) ([]video.Generation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.GenerationModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Model != "" {
		query = query.Where("model = ?", filter.Model)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.GenerationModel
	if err := orderAndPaginate(query, filter.Pagination, GenerationSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toGenerations(rows), total, nil
}

// ListPending returns queued and in-progress generations together with
// completed ones that were never downloaded, oldest first
func (r *GormGenerationRepository) ListPending(ctx context.Context, limit int) ([]video.Generation, error) {
	var rows []models.GenerationModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? OR (status = ? AND (local_path IS NULL OR local_path = ''))",
			pendingStatuses, string(video.StatusCompleted)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toGenerations(rows), nil
}

// Save inserts or updates a generation
func (r *GormGenerationRepository) Save(ctx context.Context, g *video.Generation) error {
	return r.db.WithContext(ctx).Save(models.GenerationModelFromDomain(g)).Error
}

// Delete removes a generation
func (r *GormGenerationRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.GenerationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return video.ErrGenerationNotFound
	}
	return nil
}

func toGenerations(rows []models.GenerationModel) []video.Generation {
	out := make([]video.Generation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ video.Repository = (*GormGenerationRepository)(nil)
