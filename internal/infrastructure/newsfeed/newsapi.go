package newsfeed

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/news"
)

const newsAPIURL = "https://newsapi.org/v2/top-headlines"

// NewsAPI fetches top headlines from newsapi.org
type NewsAPI struct {
	feedClient
}

// NewNewsAPI creates a NewsAPI source
func NewNewsAPI(cfg Config, logger *zap.Logger) *NewsAPI {
	return &NewsAPI{feedClient: newFeedClient(SourceNewsAPI, cfg, newsAPIURL, logger)}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       *string `json:"title"`
		Description string  `json:"description"`
		Content     string  `json:"content"`
		URL         string  `json:"url"`
		URLToImage  string  `json:"urlToImage"`
		PublishedAt string  `json:"publishedAt"`
	} `json:"articles"`
}

// Fetch implements news.Source
func (s *NewsAPI) Fetch(ctx context.Context, req news.FetchRequest) ([]news.Draft, error) {
	if s.apiKey == "" {
		s.logger.Warn("NewsAPI key not configured")
		return []news.Draft{}, nil
	}
	req = req.Normalize()

	category := req.Category
	if category == news.CategoryCelebrity {
		category = news.CategoryEntertainment
	}
	params := url.Values{
		"apiKey":   {s.apiKey},
		"category": {string(category)},
		"country":  {req.Country},
		"pageSize": {strconv.Itoa(min(req.PageSize, 100))},
	}

	var resp newsAPIResponse
	if err := s.getJSON(ctx, params, &resp); err != nil {
		s.logger.Error("Error fetching headlines", zap.Error(err))
		return []news.Draft{}, nil
	}
	if resp.Status != "ok" {
		msg := resp.Message
		if msg == "" {
			msg = "Unknown error"
		}
		s.logger.Error("NewsAPI error", zap.String("message", msg))
		return []news.Draft{}, nil
	}

	drafts := make([]news.Draft, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.URL == "" {
			continue
		}
		title := "Untitled"
		if a.Title != nil && *a.Title != "" {
			title = *a.Title
		}
		drafts = append(drafts, news.Draft{
			Title:       title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			Source:      a.Source.Name,
			Category:    req.Category,
			PublishedAt: s.parseTime(a.PublishedAt),
			ImageURL:    a.URLToImage,
		})
	}

	s.logger.Info("Fetched articles", zap.Int("count", len(drafts)), zap.String("category", string(req.Category)))
	return drafts, nil
}

var _ news.Source = (*NewsAPI)(nil)
