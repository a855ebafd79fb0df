package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/news"
)

// ArticleModel is the persistence model for news.Article
type ArticleModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title       string     `gorm:"type:varchar(500);not null"`
	Description *string    `gorm:"type:text"`
	Content     *string    `gorm:"type:text"`
	URL         string     `gorm:"column:url;type:varchar(1000);not null;uniqueIndex"`
	Source      *string    `gorm:"type:varchar(200)"`
	Category    string     `gorm:"type:varchar(50);not null;index"`
	PublishedAt *time.Time `gorm:"index"`
	ImageURL    *string    `gorm:"column:image_url;type:varchar(1000)"`
	CreatedAt   time.Time  `gorm:"not null;index"`
	IsProcessed bool       `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (ArticleModel) TableName() string {
	return "news_articles"
}

// ToDomain converts the persistence model to a domain Article
func (m *ArticleModel) ToDomain() *news.Article {
	return &news.Article{
		ID:          m.ID,
		Title:       m.Title,
		Description: deref(m.Description),
		Content:     deref(m.Content),
		URL:         m.URL,
		Source:      deref(m.Source),
		Category:    news.Category(m.Category),
		PublishedAt: m.PublishedAt,
		ImageURL:    deref(m.ImageURL),
		CreatedAt:   m.CreatedAt,
		IsProcessed: m.IsProcessed,
	}
}

// FromDomain populates the persistence model from a domain Article
func (m *ArticleModel) FromDomain(a *news.Article) {
	m.ID = a.ID
	m.Title = a.Title
	m.Description = nullable(a.Description)
	m.Content = nullable(a.Content)
	m.URL = a.URL
	m.Source = nullable(a.Source)
	m.Category = string(a.Category)
	m.PublishedAt = a.PublishedAt
	m.ImageURL = nullable(a.ImageURL)
	m.CreatedAt = a.CreatedAt
	m.IsProcessed = a.IsProcessed
}

// ArticleModelFromDomain creates a persistence model from a domain Article
func ArticleModelFromDomain(a *news.Article) *ArticleModel {
	m := &ArticleModel{}
	m.FromDomain(a)
	return m
}
