package news

import (
	"context"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/shared"
)

// Filter narrows article listings
type Filter struct {
	shared.Pagination
	Category    *Category
	IsProcessed *bool
}

// Repository persists articles
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)
	FindByURL(ctx context.Context, url string) (*Article, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
	List(ctx context.Context, filter Filter) ([]Article, int64, error)
	Save(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id uuid.UUID) error
}
