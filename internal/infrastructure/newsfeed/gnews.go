package newsfeed

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/news"
)

const gnewsURL = "https://gnews.io/api/v4/top-headlines"

// GNews fetches top headlines from gnews.io
type GNews struct {
	feedClient
}

// NewGNews creates a GNews source
func NewGNews(cfg Config, logger *zap.Logger) *GNews {
	return &GNews{feedClient: newFeedClient(SourceGNews, cfg, gnewsURL, logger)}
}

type gnewsResponse struct {
	TotalArticles int `json:"totalArticles"`
	Articles      []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		Image       string `json:"image"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
	Errors []string `json:"errors"`
}

func gnewsCategory(c news.Category) string {
	switch c {
	case news.CategoryCelebrity:
		return string(news.CategoryEntertainment)
	case news.CategoryPolitics:
		return "nation"
	default:
		return string(c)
	}
}

// Fetch implements news.Source
func (s *GNews) Fetch(ctx context.Context, req news.FetchRequest) ([]news.Draft, error) {
	if s.apiKey == "" {
		s.logger.Warn("GNews API key not configured")
		return []news.Draft{}, nil
	}
	req = req.Normalize()

	params := url.Values{
		"token":    {s.apiKey},
		"category": {gnewsCategory(req.Category)},
		"country":  {req.Country},
		"max":      {strconv.Itoa(min(req.PageSize, 100))},
		"lang":     {"en"},
	}

	var resp gnewsResponse
	if err := s.getJSON(ctx, params, &resp); err != nil {
		s.logger.Error("Error fetching headlines", zap.Error(err))
		return []news.Draft{}, nil
	}
	if len(resp.Errors) > 0 {
		s.logger.Error("GNews error", zap.Strings("errors", resp.Errors))
		return []news.Draft{}, nil
	}

	drafts := make([]news.Draft, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.URL == "" {
			continue
		}
		drafts = append(drafts, news.Draft{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			Source:      a.Source.Name,
			Category:    req.Category,
			PublishedAt: s.parseTime(a.PublishedAt),
			ImageURL:    a.Image,
		})
	}

	s.logger.Info("Fetched articles", zap.Int("count", len(drafts)), zap.String("category", string(req.Category)))
	return drafts, nil
}

var _ news.Source = (*GNews)(nil)
