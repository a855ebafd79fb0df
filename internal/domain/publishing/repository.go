package publishing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/shared"
)

// Filter narrows published video listings
type Filter struct {
	shared.Pagination
	Platform *Platform
	Status   *Status
	VideoID  string
	IdeaID   *uuid.UUID
}

// PublishedVideoRepository persists publication records
type PublishedVideoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PublishedVideo, error)
	List(ctx context.Context, filter Filter) ([]PublishedVideo, int64, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]PublishedVideo, error)
	// ListForAnalytics returns published records, least recently refreshed first
	ListForAnalytics(ctx context.Context, platform Platform, limit int) ([]PublishedVideo, error)
	Save(ctx context.Context, v *PublishedVideo) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CredentialRepository persists platform credentials, one per platform
type CredentialRepository interface {
	FindByPlatform(ctx context.Context, platform Platform) (*PlatformCredential, error)
	FindActive(ctx context.Context, platform Platform) (*PlatformCredential, error)
	List(ctx context.Context) ([]PlatformCredential, error)
	Save(ctx context.Context, c *PlatformCredential) error
}
