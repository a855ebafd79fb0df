package newsfeed

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/news"
)

const (
	guardianURL    = "https://content.guardianapis.com/search"
	guardianSource = "The Guardian"
	guardianMax    = 50
)

// guardianSections maps categories onto Guardian sections. General
// queries every section.
var guardianSections = map[news.Category]string{
	news.CategoryPolitics:      "politics",
	news.CategoryCelebrity:     "culture",
	news.CategorySports:        "sport",
	news.CategoryTechnology:    "technology",
	news.CategoryEntertainment: "culture",
	news.CategoryBusiness:      "business",
	news.CategoryHealth:        "society",
	news.CategoryScience:       "science",
}

// Guardian searches the Guardian content API
type Guardian struct {
	feedClient
}

// NewGuardian creates a Guardian source
func NewGuardian(cfg Config, logger *zap.Logger) *Guardian {
	return &Guardian{feedClient: newFeedClient(SourceGuardian, cfg, guardianURL, logger)}
}

type guardianResponse struct {
	Response struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Results []struct {
			WebTitle           string `json:"webTitle"`
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			Fields             struct {
				TrailText string `json:"trailText"`
				BodyText  string `json:"bodyText"`
				Thumbnail string `json:"thumbnail"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

// Fetch implements news.Source. Country is not supported by the API and
// is ignored.
func (s *Guardian) Fetch(ctx context.Context, req news.FetchRequest) ([]news.Draft, error) {
	if s.apiKey == "" {
		s.logger.Warn("Guardian API key not configured")
		return []news.Draft{}, nil
	}
	req = req.Normalize()

	params := url.Values{
		"api-key":     {s.apiKey},
		"page-size":   {strconv.Itoa(min(req.PageSize, guardianMax))},
		"show-fields": {"trailText,bodyText,thumbnail"},
		"order-by":    {"newest"},
	}
	if section, ok := guardianSections[req.Category]; ok {
		params.Set("section", section)
	}

	var resp guardianResponse
	if err := s.getJSON(ctx, params, &resp); err != nil {
		s.logger.Error("Error fetching articles", zap.Error(err))
		return []news.Draft{}, nil
	}
	if resp.Response.Status != "ok" {
		s.logger.Error("Guardian API error", zap.String("message", resp.Response.Message))
		return []news.Draft{}, nil
	}

	drafts := make([]news.Draft, 0, len(resp.Response.Results))
	for _, r := range resp.Response.Results {
		if r.WebURL == "" {
			continue
		}
		drafts = append(drafts, news.Draft{
			Title:       r.WebTitle,
			Description: r.Fields.TrailText,
			Content:     r.Fields.BodyText,
			URL:         r.WebURL,
			Source:      guardianSource,
			Category:    req.Category,
			PublishedAt: s.parseTime(r.WebPublicationDate),
			ImageURL:    r.Fields.Thumbnail,
		})
	}

	s.logger.Info("Fetched articles", zap.Int("count", len(drafts)), zap.String("category", string(req.Category)))
	return drafts, nil
}

var _ news.Source = (*Guardian)(nil)
