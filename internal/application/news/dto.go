package news

import (
	"time"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/news"
)

// FetchNewsRequest triggers a fetch from one source
type FetchNewsRequest struct {
	Category string `json:"category" binding:"omitempty,oneof=general politics celebrity sports technology entertainment business health science"`
	Country  string `json:"country" binding:"omitempty,max=2"`
	PageSize int    `json:"page_size" binding:"omitempty,min=1,max=100"`
	Source   string `json:"source" binding:"omitempty,oneof=newsapi gnews guardian"`
}

// ArticleListFilter holds list query parameters
type ArticleListFilter struct {
	Category    string `form:"category" binding:"omitempty,oneof=general politics celebrity sports technology entertainment business health science"`
	IsProcessed *bool  `form:"is_processed"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by" binding:"omitempty,max=50"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ArticleResponse represents an article in API responses
type ArticleResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content,omitempty"`
	URL         string     `json:"url"`
	Source      string     `json:"source,omitempty"`
	Category    string     `json:"category,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	IsProcessed bool       `json:"is_processed"`
}

// FetchNewsResponse reports the newly stored articles
type FetchNewsResponse struct {
	ArticlesFetched int               `json:"articles_fetched"`
	Articles        []ArticleResponse `json:"articles"`
}

// ToArticleResponse converts a domain article
func ToArticleResponse(a *news.Article) ArticleResponse {
	return ArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		URL:         a.URL,
		Source:      a.Source,
		Category:    string(a.Category),
		PublishedAt: a.PublishedAt,
		ImageURL:    a.ImageURL,
		CreatedAt:   a.CreatedAt,
		IsProcessed: a.IsProcessed,
	}
}

// ToArticleResponses converts a slice of domain articles
func ToArticleResponses(articles []news.Article) []ArticleResponse {
	out := make([]ArticleResponse, len(articles))
	for i := range articles {
		out[i] = ToArticleResponse(&articles[i])
	}
	return out
}
