package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/contentgen/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ArticleSortFields contains allowed sort fields for news articles
var ArticleSortFields = map[string]bool{
	"created_at":   true,
	"published_at": true,
	"title":        true,
	"category":     true,
	"source":       true,
}

// IdeaSortFields contains allowed sort fields for video ideas
var IdeaSortFields = map[string]bool{
	"created_at":         true,
	"title":              true,
	"style":              true,
	"estimated_duration": true,
	"approved_at":        true,
}

// GenerationSortFields contains allowed sort fields for video generations
var GenerationSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"completed_at": true,
	"model":        true,
	"status":       true,
	"progress":     true,
}

// PublishedVideoSortFields contains allowed sort fields for publication records
var PublishedVideoSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"scheduled_at": true,
	"published_at": true,
	"status":       true,
	"views":        true,
	"likes":        true,
}

// orderAndPaginate applies a whitelisted ORDER BY followed by the page window
func orderAndPaginate(db *gorm.DB, p shared.Pagination, allowed map[string]bool) *gorm.DB {
	field := ValidateSortField(p.OrderBy, allowed, "created_at")
	return paginate(db.Order(field+" "+ValidateSortOrder(p.OrderDir)), p)
}
