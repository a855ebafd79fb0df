package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contentgen/backend/internal/domain/idea"
	"github.com/contentgen/backend/internal/infrastructure/persistence/models"
)

// GormIdeaRepository implements idea.Repository using GORM
type GormIdeaRepository struct {
	db *gorm.DB
}

// NewGormIdeaRepository creates a new GormIdeaRepository
func NewGormIdeaRepository(db *gorm.DB) *GormIdeaRepository {
	return &GormIdeaRepository{db: db}
}

// FindByID finds an idea by its ID
func (r *GormIdeaRepository) FindByID(ctx context.Context, id uuid.UUID) (*idea.Idea, error) {
	var model models.IdeaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, idea.ErrIdeaNotFound)
	}
	return model.ToDomain(), nil
}

// List returns a page of ideas, newest first, and the total match count
func (r *GormIdeaRepository) List(ctx context.Context, filter idea.Filter) ([]idea.Idea, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.IdeaModel{})
	if filter.ArticleID != nil {
		query = query.Where("article_id = ?", *filter.ArticleID)
	}
	if filter.IsApproved != nil {
		query = query.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.Style != nil {
		query = query.Where("style = ?", string(*filter.Style))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.IdeaModel
	if err := orderAndPaginate(query, filter.Pagination, IdeaSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	ideas := make([]idea.Idea, len(rows))
	for i := range rows {
		ideas[i] = *rows[i].ToDomain()
	}
	return ideas, total, nil
}

// Save inserts or updates an idea
func (r *GormIdeaRepository) Save(ctx context.Context, i *idea.Idea) error {
	return r.db.WithContext(ctx).Save(models.IdeaModelFromDomain(i)).Error
}

// SaveAll inserts ideas in a single transaction
func (r *GormIdeaRepository) SaveAll(ctx context.Context, ideas []*idea.Idea) error {
	if len(ideas) == 0 {
		return nil
	}
	rows := make([]*models.IdeaModel, len(ideas))
	for i, it := range ideas {
		rows[i] = models.IdeaModelFromDomain(it)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
}

// Delete removes an idea
func (r *GormIdeaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.IdeaModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return idea.ErrIdeaNotFound
	}
	return nil
}

var _ idea.Repository = (*GormIdeaRepository)(nil)
