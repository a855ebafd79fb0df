package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/publishing"
)

// PublishedVideoModel is the persistence model for publishing.PublishedVideo
type PublishedVideoModel struct {
	BaseModel
	VideoID             string     `gorm:"type:varchar(100);not null;index"`
	IdeaID              *uuid.UUID `gorm:"type:uuid;index"`
	Platform            string     `gorm:"type:varchar(20);not null;index"`
	PlatformVideoID     *string    `gorm:"type:varchar(200);index"`
	Status              string     `gorm:"type:varchar(20);not null;default:draft;index"`
	Title               string     `gorm:"type:varchar(200);not null"`
	Description         *string    `gorm:"type:text"`
	Tags                *string    `gorm:"type:text"`
	Category            *string    `gorm:"type:varchar(50)"`
	Privacy             string     `gorm:"type:varchar(20);not null;default:public"`
	PlatformMetadata    *string    `gorm:"type:text"`
	PlatformURL         *string    `gorm:"column:platform_url;type:varchar(500)"`
	ThumbnailURL        *string    `gorm:"column:thumbnail_url;type:varchar(500)"`
	ScheduledAt         *time.Time `gorm:"index"`
	PublishedAt         *time.Time `gorm:"index"`
	Views               int64      `gorm:"not null;default:0"`
	Likes               int64      `gorm:"not null;default:0"`
	Comments            int64      `gorm:"not null;default:0"`
	Shares              int64      `gorm:"not null;default:0"`
	LastAnalyticsUpdate *time.Time
	ErrorMessage        *string `gorm:"type:text"`
	RetryCount          int     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PublishedVideoModel) TableName() string {
	return "published_videos"
}

// ToDomain converts the persistence model to a domain PublishedVideo
func (m *PublishedVideoModel) ToDomain() *publishing.PublishedVideo {
	return &publishing.PublishedVideo{
		BaseEntity:          m.BaseModel.ToDomain(),
		VideoID:             m.VideoID,
		IdeaID:              m.IdeaID,
		Platform:            publishing.Platform(m.Platform),
		PlatformVideoID:     deref(m.PlatformVideoID),
		Status:              publishing.Status(m.Status),
		Title:               m.Title,
		Description:         deref(m.Description),
		Tags:                decodeStrings(m.Tags),
		Category:            deref(m.Category),
		Privacy:             publishing.Privacy(m.Privacy),
		PlatformMetadata:    decodeMap(m.PlatformMetadata),
		PlatformURL:         deref(m.PlatformURL),
		ThumbnailURL:        deref(m.ThumbnailURL),
		ScheduledAt:         m.ScheduledAt,
		PublishedAt:         m.PublishedAt,
		Views:               m.Views,
		Likes:               m.Likes,
		Comments:            m.Comments,
		Shares:              m.Shares,
		LastAnalyticsUpdate: m.LastAnalyticsUpdate,
		ErrorMessage:        deref(m.ErrorMessage),
		RetryCount:          m.RetryCount,
	}
}

// FromDomain populates the persistence model from a domain PublishedVideo
func (m *PublishedVideoModel) FromDomain(v *publishing.PublishedVideo) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.VideoID = v.VideoID
	m.IdeaID = v.IdeaID
	m.Platform = string(v.Platform)
	m.PlatformVideoID = nullable(v.PlatformVideoID)
	m.Status = string(v.Status)
	m.Title = v.Title
	m.Description = nullable(v.Description)
	m.Tags = nil
	if len(v.Tags) > 0 {
		m.Tags = encodeJSON(v.Tags)
	}
	m.Category = nullable(v.Category)
	m.Privacy = string(v.Privacy)
	m.PlatformMetadata = nil
	if len(v.PlatformMetadata) > 0 {
		m.PlatformMetadata = encodeJSON(v.PlatformMetadata)
	}
	m.PlatformURL = nullable(v.PlatformURL)
	m.ThumbnailURL = nullable(v.ThumbnailURL)
	m.ScheduledAt = v.ScheduledAt
	m.PublishedAt = v.PublishedAt
	m.Views = v.Views
	m.Likes = v.Likes
	m.Comments = v.Comments
	m.Shares = v.Shares
	m.LastAnalyticsUpdate = v.LastAnalyticsUpdate
	m.ErrorMessage = nullable(v.ErrorMessage)
	m.RetryCount = v.RetryCount
}

// PublishedVideoModelFromDomain creates a persistence model from a domain PublishedVideo
func PublishedVideoModelFromDomain(v *publishing.PublishedVideo) *PublishedVideoModel {
	m := &PublishedVideoModel{}
	m.FromDomain(v)
	return m
}

// PlatformCredentialModel is the persistence model for publishing.PlatformCredential.
// Token columns hold ciphertext; the repository encrypts and decrypts them.
type PlatformCredentialModel struct {
	BaseModel
	Platform        string     `gorm:"type:varchar(20);not null;uniqueIndex"`
	AccessToken     *string    `gorm:"type:text"`
	RefreshToken    *string    `gorm:"type:text"`
	TokenExpiresAt  *time.Time
	ChannelID       *string `gorm:"type:varchar(200)"`
	CredentialsJSON *string `gorm:"column:credentials_json;type:text"`
	IsActive        bool    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PlatformCredentialModel) TableName() string {
	return "platform_credentials"
}

// ToDomain converts the persistence model to a domain PlatformCredential.
// Token fields are copied as stored.
func (m *PlatformCredentialModel) ToDomain() *publishing.PlatformCredential {
	return &publishing.PlatformCredential{
		BaseEntity:      m.BaseModel.ToDomain(),
		Platform:        publishing.Platform(m.Platform),
		AccessToken:     deref(m.AccessToken),
		RefreshToken:    deref(m.RefreshToken),
		TokenExpiresAt:  m.TokenExpiresAt,
		ChannelID:       deref(m.ChannelID),
		CredentialsJSON: decodeMap(m.CredentialsJSON),
		IsActive:        m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain PlatformCredential
func (m *PlatformCredentialModel) FromDomain(c *publishing.PlatformCredential) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Platform = string(c.Platform)
	m.AccessToken = nullable(c.AccessToken)
	m.RefreshToken = nullable(c.RefreshToken)
	m.TokenExpiresAt = c.TokenExpiresAt
	m.ChannelID = nullable(c.ChannelID)
	m.CredentialsJSON = nil
	if len(c.CredentialsJSON) > 0 {
		m.CredentialsJSON = encodeJSON(c.CredentialsJSON)
	}
	m.IsActive = c.IsActive
}
