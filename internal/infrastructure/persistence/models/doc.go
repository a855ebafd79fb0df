// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Each model converts with ToDomain and FromDomain. List and map fields
// are stored as JSON text so the same schema works on sqlite and postgres.
//
// Structure:
// - base.go: BaseModel and JSON column helpers
// - news.go: news_articles
// - idea.go: video_ideas
// - video.go: video_generations
// - publishing.go: published_videos, platform_credentials
package models
