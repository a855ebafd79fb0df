package news

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/shared"
)

// Category is a news category understood by the aggregation sources
type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryPolitics      Category = "politics"
	CategoryCelebrity     Category = "celebrity"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
	CategoryEntertainment Category = "entertainment"
	CategoryBusiness      Category = "business"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
)

// Categories lists every supported category
var Categories = []Category{
	CategoryGeneral, CategoryPolitics, CategoryCelebrity, CategorySports, CategoryTechnology,
	CategoryEntertainment, CategoryBusiness, CategoryHealth, CategoryScience,
}

// IsValid reports whether c is a supported category
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const (
	MaxTitleLength  = 500
	MaxURLLength    = 1000
	MaxSourceLength = 200
	untitled        = "Untitled"
)

// Article is a news article stored for idea generation
type Article struct {
	ID          uuid.UUID
	Title       string
	Description string
	Content     string
	URL         string
	Source      string
	Category    Category
	PublishedAt *time.Time
	ImageURL    string
	CreatedAt   time.Time
	IsProcessed bool
}

// Draft is an article as returned by a source, before it is persisted
type Draft struct {
	Title       string
	Description string
	Content     string
	URL         string
	Source      string
	Category    Category
	PublishedAt *time.Time
	ImageURL    string
}

// NewArticle validates a draft and turns it into an unprocessed article.
// Overlong title and source values are truncated to the column limits.
func NewArticle(d Draft) (*Article, error) {
	url := strings.TrimSpace(d.URL)
	if url == "" {
		return nil, shared.InvalidInputf("article url is required")
	}
	if len(url) > MaxURLLength {
		return nil, shared.InvalidInputf("article url exceeds %d characters", MaxURLLength)
	}
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = untitled
	}
	if d.Category != "" && !d.Category.IsValid() {
		return nil, shared.InvalidInputf("unknown category %q", d.Category)
	}

	return &Article{
		ID:          uuid.New(),
		Title:       truncate(title, MaxTitleLength),
		Description: d.Description,
		Content:     d.Content,
		URL:         url,
		Source:      truncate(d.Source, MaxSourceLength),
		Category:    d.Category,
		PublishedAt: d.PublishedAt,
		ImageURL:    d.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// MarkProcessed flags the article as used for idea generation
func (a *Article) MarkProcessed() {
	a.IsProcessed = true
}

// ContentExcerpt returns at most n runes of the article body
func (a *Article) ContentExcerpt(n int) string {
	return truncate(a.Content, n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
