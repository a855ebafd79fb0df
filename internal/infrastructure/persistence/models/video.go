package models

import (
	"time"

	"github.com/contentgen/backend/internal/domain/video"
)

// GenerationModel is the persistence model for video.Generation.
// The primary key is the provider job id.
type GenerationModel struct {
	ID           string    `gorm:"type:varchar(100);primaryKey"`
	Provider     string    `gorm:"type:varchar(20);not null;index"`
	Model        string    `gorm:"type:varchar(50);not null;index"`
	Prompt       string    `gorm:"type:text;not null"`
	Seconds      string    `gorm:"type:varchar(10)"`
	Size         string    `gorm:"type:varchar(20)"`
	Status       string    `gorm:"type:varchar(20);not null;index"`
	Progress     int       `gorm:"not null;default:0"`
	VideoURL     *string   `gorm:"column:video_url;type:text"`
	LocalPath    *string   `gorm:"type:varchar(500)"`
	StorageKey   *string   `gorm:"type:varchar(500)"`
	ErrorMessage *string   `gorm:"type:text"`
	FellBack     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null;index"`
	UpdatedAt    time.Time `gorm:"not null"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (GenerationModel) TableName() string {
	return "video_generations"
}

// ToDomain converts the persistence model to a domain Generation
func (m *GenerationModel) ToDomain() *video.Generation {
	return &video.Generation{
		ID:           m.ID,
		Provider:     m.Provider,
		Model:        m.Model,
		Prompt:       m.Prompt,
		Seconds:      m.Seconds,
		Size:         m.Size,
		Status:       video.Status(m.Status),
		Progress:     m.Progress,
		VideoURL:     deref(m.VideoURL),
		LocalPath:    deref(m.LocalPath),
		StorageKey:   deref(m.StorageKey),
		ErrorMessage: deref(m.ErrorMessage),
		FellBack:     m.FellBack,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		CompletedAt:  m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain Generation
func (m *GenerationModel) FromDomain(g *video.Generation) {
	m.ID = g.ID
	m.Provider = g.Provider
	m.Model = g.Model
	m.Prompt = g.Prompt
	m.Seconds = g.Seconds
	m.Size = g.Size
	m.Status = string(g.Status)
	m.Progress = g.Progress
	m.VideoURL = nullable(g.VideoURL)
	m.LocalPath = nullable(g.LocalPath)
	m.StorageKey = nullable(g.StorageKey)
	m.ErrorMessage = nullable(g.ErrorMessage)
	m.FellBack = g.FellBack
	m.CreatedAt = g.CreatedAt
	m.UpdatedAt = g.UpdatedAt
	m.CompletedAt = g.CompletedAt
}

// GenerationModelFromDomain creates a persistence model from a domain Generation
func GenerationModelFromDomain(g *video.Generation) *GenerationModel {
	m := &GenerationModel{}
	m.FromDomain(g)
	return m
}
