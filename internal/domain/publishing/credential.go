package publishing

import (
	"time"

	"github.com/contentgen/backend/internal/domain/shared"
)

// PlatformCredential holds OAuth tokens for one platform account.
// Tokens are plain text in memory and encrypted by the repository.
type PlatformCredential struct {
	shared.BaseEntity
	Platform        Platform
	AccessToken     string
	RefreshToken    string
	TokenExpiresAt  *time.Time
	ChannelID       string
	CredentialsJSON map[string]any
	IsActive        bool
}

// NewPlatformCredential creates an active credential
func NewPlatformCredential(platform Platform) *PlatformCredential {
	return &PlatformCredential{
		BaseEntity: shared.NewBaseEntity(),
		Platform:   platform,
		IsActive:   true,
	}
}

// UpdateTokens replaces the token pair. An empty refresh token keeps the
// stored one, since providers only return it on first consent.
func (c *PlatformCredential) UpdateTokens(access, refresh string, expiresAt *time.Time, now time.Time) {
	c.AccessToken = access
	if refresh != "" {
		c.RefreshToken = refresh
	}
	c.TokenExpiresAt = expiresAt
	c.IsActive = true
	c.Touch(now.UTC())
}

// Deactivate disables the credential without deleting it
func (c *PlatformCredential) Deactivate(now time.Time) {
	c.IsActive = false
	c.Touch(now.UTC())
}

// HasRefreshToken reports whether offline access was granted
func (c *PlatformCredential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}
