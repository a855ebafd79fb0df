package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/idea"
)

// IdeaModel is the persistence model for idea.Idea
type IdeaModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ArticleID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title             string     `gorm:"type:varchar(200);not null"`
	Concept           string     `gorm:"type:text;not null"`
	VideoPrompt       string     `gorm:"type:text;not null"`
	Style             *string    `gorm:"type:varchar(50);index"`
	EstimatedDuration int        `gorm:"not null;default:45"`
	IsApproved        bool       `gorm:"not null;default:false;index"`
	ApprovedBy        *string    `gorm:"type:varchar(100)"`
	ApprovedAt        *time.Time
	CreatedAt         time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (IdeaModel) TableName() string {
	return "video_ideas"
}

// ToDomain converts the persistence model to a domain Idea
func (m *IdeaModel) ToDomain() *idea.Idea {
	return &idea.Idea{
		ID:                m.ID,
		ArticleID:         m.ArticleID,
		Title:             m.Title,
		Concept:           m.Concept,
		VideoPrompt:       m.VideoPrompt,
		Style:             idea.Style(deref(m.Style)),
		EstimatedDuration: m.EstimatedDuration,
		IsApproved:        m.IsApproved,
		ApprovedBy:        deref(m.ApprovedBy),
		ApprovedAt:        m.ApprovedAt,
		CreatedAt:         m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Idea
func (m *IdeaModel) FromDomain(i *idea.Idea) {
	m.ID = i.ID
	m.ArticleID = i.ArticleID
	m.Title = i.Title
	m.Concept = i.Concept
	m.VideoPrompt = i.VideoPrompt
	m.Style = nullable(string(i.Style))
	m.EstimatedDuration = i.EstimatedDuration
	m.IsApproved = i.IsApproved
	m.ApprovedBy = nullable(i.ApprovedBy)
	m.ApprovedAt = i.ApprovedAt
	m.CreatedAt = i.CreatedAt
}

// IdeaModelFromDomain creates a persistence model from a domain Idea
func IdeaModelFromDomain(i *idea.Idea) *IdeaModel {
	m := &IdeaModel{}
	m.FromDomain(i)
	return m
}
