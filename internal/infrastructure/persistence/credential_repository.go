package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/contentgen/backend/internal/domain/publishing"
	"github.com/contentgen/backend/internal/infrastructure/persistence/models"
)

// TokenCipher encrypts OAuth tokens before they reach the database
type TokenCipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(stored string) (string, error)
}

// GormCredentialRepository implements publishing.CredentialRepository using GORM.
// Access and refresh tokens are encrypted at rest.
type GormCredentialRepository struct {
	db     *gorm.DB
	cipher TokenCipher
}

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB, cipher TokenCipher) *GormCredentialRepository {
	return &GormCredentialRepository{db: db, cipher: cipher}
}

// FindByPlatform finds the credential for platform regardless of its active flag
func (r *GormCredentialRepository) FindByPlatform(ctx context.Context, platform publishing.Platform) (*publishing.PlatformCredential, error) {
	var model models.PlatformCredentialModel
	if err := r.db.WithContext(ctx).Where("platform = ?", string(platform)).First(&model).Error; err != nil {
		return nil, notFound(err, publishing.ErrCredentialNotFound)
	}
	return r.decrypt(&model)
}

// FindActive finds the active credential for platform
func (r *GormCredentialRepository) FindActive(ctx context.Context, platform publishing.Platform) (*publishing.PlatformCredential, error) {
	var model models.PlatformCredentialModel
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND is_active = ?", string(platform), true).
		First(&model).Error; err != nil {
		return nil, notFound(err, publishing.ErrCredentialNotFound)
	}
	return r.decrypt(&model)
}

// List returns every stored credential ordered by platform
func (r *GormCredentialRepository) List(ctx context.Context) ([]publishing.PlatformCredential, error) {
	var rows []models.PlatformCredentialModel
	if err := r.db.WithContext(ctx).Order("platform ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]publishing.PlatformCredential, 0, len(rows))
	for i := range rows {
		c, err := r.decrypt(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// Save upserts the credential keyed by platform. An existing row for the
// platform keeps its id.
func (r *GormCredentialRepository) Save(ctx context.Context, c *publishing.PlatformCredential) error {
	var model models.PlatformCredentialModel
	model.FromDomain(c)

	var err error
	if model.AccessToken, err = r.encrypt(model.AccessToken); err != nil {
		return err
	}
	if model.RefreshToken, err = r.encrypt(model.RefreshToken); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PlatformCredentialModel
		err := tx.Select("id", "created_at").Where("platform = ?", model.Platform).First(&existing).Error
		switch {
		case err == nil:
			model.ID = existing.ID
			model.CreatedAt = existing.CreatedAt
			c.ID = existing.ID
			c.CreatedAt = existing.CreatedAt
			return tx.Save(&model).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&model).Error
		default:
			return err
		}
	})
}

func (r *GormCredentialRepository) encrypt(v *string) (*string, error) {
	if v == nil || r.cipher == nil {
		return v, nil
	}
	enc, err := r.cipher.Encrypt(*v)
	if err != nil {
		return nil, fmt.Errorf("encrypt token: %w", err)
	}
	return &enc, nil
}

func (r *GormCredentialRepository) decrypt(m *models.PlatformCredentialModel) (*publishing.PlatformCredential, error) {
	c := m.ToDomain()
	if r.cipher == nil {
		return c, nil
	}
	var err error
	if c.AccessToken != "" {
		if c.AccessToken, err = r.cipher.Decrypt(c.AccessToken); err != nil {
			return nil, fmt.Errorf("decrypt access token for %s: %w", c.Platform, err)
		}
	}
	if c.RefreshToken != "" {
		if c.RefreshToken, err = r.cipher.Decrypt(c.RefreshToken); err != nil {
			return nil, fmt.Errorf("decrypt refresh token for %s: %w", c.Platform, err)
		}
	}
	return c, nil
}

var _ publishing.CredentialRepository = (*GormCredentialRepository)(nil)
