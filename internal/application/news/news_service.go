package news

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/news"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/infrastructure/telemetry"
)

// DefaultSource is used when a fetch names no source
const DefaultSource = "newsapi"

// Service aggregates headlines from news sources and manages stored articles
type Service struct {
	repo    news.Repository
	sources map[string]news.Source
	metrics *telemetry.ContentMetrics
	logger  *zap.Logger
}

// NewService creates a new news Service
func NewService(repo news.Repository, sources map[string]news.Source, metrics *telemetry.ContentMetrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		sources: sources,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchAndSave fetches headlines from the requested source and stores
// the ones not seen before
func (s *Service) FetchAndSave(ctx context.Context, req FetchNewsRequest) (_ *FetchNewsResponse, err error) {
	name := strings.ToLower(req.Source)
	if name == "" {
		name = DefaultSource
	}
	ctx, span := telemetry.StartStep(ctx, telemetry.StepNewsFetch, telemetry.SpanNewsSource.String(name))
	defer func() { telemetry.EndStep(span, err) }()
	source, ok := s.sources[name]
	if !ok {
		return nil, news.ErrUnknownSource
	}

	fetchReq := news.FetchRequest{
		Category: news.Category(req.Category),
		Country:  strings.ToLower(req.Country),
		PageSize: req.PageSize,
	}.Normalize()
	if !fetchReq.Category.IsValid() {
		return nil, shared.InvalidInputf("unknown category %q", req.Category)
	}

	start := time.Now()
	drafts, err := source.Fetch(ctx, fetchReq)
	s.metrics.ExternalCall(ctx, name, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	saved, err := s.SaveArticles(ctx, drafts)
	if err != nil {
		return nil, err
	}
	s.metrics.NewsSaved(ctx, name, len(saved))
	span.SetAttributes(telemetry.SpanCount.Int(len(saved)))

	return &FetchNewsResponse{
		ArticlesFetched: len(saved),
		Articles:        ToArticleResponses(saved),
	}, nil
}

// SaveArticles stores drafts whose URL is new. Failures on individual
// articles are logged and skipped.
func (s *Service) SaveArticles(ctx context.Context, drafts []news.Draft) ([]news.Article, error) {
	saved := make([]news.Article, 0, len(drafts))
	for _, d := range drafts {
		if err := ctx.Err(); err != nil {
			return saved, err
		}

		exists, err := s.repo.ExistsByURL(ctx, d.URL)
		if err != nil {
			s.logger.Error("Error checking article", zap.String("url", d.URL), zap.Error(err))
			continue
		}
		if exists {
			s.logger.Debug("Skipping duplicate article", zap.String("url", d.URL))
			continue
		}

		article, err := news.NewArticle(d)
		if err != nil {
			s.logger.Error("Error saving article", zap.String("url", d.URL), zap.Error(err))
			continue
		}
		if err := s.repo.Save(ctx, article); err != nil {
			if errors.Is(err, news.ErrDuplicateURL) {
				s.logger.Debug("Skipping duplicate article", zap.String("url", d.URL))
			} else {
				s.logger.Error("Error saving article", zap.String("url", d.URL), zap.Error(err))
			}
			continue
		}
		saved = append(saved, *article)
	}

	s.logger.Info("Saved new articles", zap.Int("count", len(saved)), zap.Int("fetched", len(drafts)))
	return saved, nil
}

// List returns a page of articles, newest first unless order_by is set
func (s *Service) List(ctx context.Context, filter ArticleListFilter) (*shared.Paginated[ArticleResponse], error) {
	f := news.Filter{
		Pagination:  shared.Pagination{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
		IsProcessed: filter.IsProcessed,
	}
	if filter.Category != "" {
		c := news.Category(filter.Category)
		f.Category = &c
	}

	articles, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToArticleResponses(articles), total, f.Page, f.PageSize)
	return &page, nil
}

// Get retrieves an article by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ArticleResponse, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// Article returns the domain article, for services building on it
func (s *Service) Article(ctx context.Context, id uuid.UUID) (*news.Article, error) {
	return s.repo.FindByID(ctx, id)
}

// MarkProcessed flags an article as used for idea generation
func (s *Service) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if article.IsProcessed {
		return nil
	}
	article.MarkProcessed()
	return s.repo.Save(ctx, article)
}

// Delete removes an article
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
