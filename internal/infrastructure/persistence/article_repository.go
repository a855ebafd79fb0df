package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contentgen/backend/internal/domain/news"
	"github.com/contentgen/backend/internal/infrastructure/persistence/models"
)

// GormArticleRepository implements news.Repository using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// FindByID finds an article by its ID
func (r *GormArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*news.Article, error) {
	var model models.ArticleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, news.ErrArticleNotFound)
	}
	return model.ToDomain(), nil
}

// FindByURL finds an article by its unique URL
func (r *GormArticleRepository) FindByURL(ctx context.Context, url string) (*news.Article, error) {
	var model models.ArticleModel
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&model).Error; err != nil {
		return nil, notFound(err, news.ErrArticleNotFound)
	}
	return model.ToDomain(), nil
}

// ExistsByURL reports whether an article with url is stored
func (r *GormArticleRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ArticleModel{}).Where("url = ?", url).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a page of articles, newest first, and the total match count
func (r *GormArticleRepository) List(ctx context.Context, filter news.Filter) ([]news.Article, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ArticleModel{})
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.IsProcessed != nil {
		query = query.Where("is_processed = ?", *filter.IsProcessed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ArticleModel
	if err := orderAndPaginate(query, filter.Pagination, ArticleSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	articles := make([]news.Article, len(rows))
	for i := range rows {
		articles[i] = *rows[i].ToDomain()
	}
	return articles, total, nil
}

// Save inserts or updates an article. A URL collision returns news.ErrDuplicateURL.
func (r *GormArticleRepository) Save(ctx context.Context, article *news.Article) error {
	model := models.ArticleModelFromDomain(article)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateKey(err) {
			return news.ErrDuplicateURL
		}
		return err
	}
	return nil
}

// Delete removes an article
func (r *GormArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ArticleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return news.ErrArticleNotFound
	}
	return nil
}

var _ news.Repository = (*GormArticleRepository)(nil)
