package idea

import (
	"context"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/shared"
)

// Filter narrows idea listings
type Filter struct {
	shared.Pagination
	ArticleID  *uuid.UUID
	IsApproved *bool
	Style      *Style
}

// Repository persists ideas
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Idea, error)
	List(ctx context.Context, filter Filter) ([]Idea, int64, error)
	Save(ctx context.Context, idea *Idea) error
	SaveAll(ctx context.Context, ideas []*Idea) error
	Delete(ctx context.Context, id uuid.UUID) error
}
