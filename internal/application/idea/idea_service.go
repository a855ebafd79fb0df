package idea

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/idea"
	"github.com/contentgen/backend/internal/domain/news"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/infrastructure/llm"
	"github.com/contentgen/backend/internal/infrastructure/telemetry"
)

const (
	DefaultNumIdeas = 5
	MaxNumIdeas     = 10
	ideaMaxTokens   = 4000
	ideaTemperature = 0.9
)

// Service generates video ideas from articles and manages stored ideas
type Service struct {
	ideas    idea.Repository
	articles news.Repository
	llm      llm.Completer
	metrics  *telemetry.ContentMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new idea Service
func NewService(ideas idea.Repository, articles news.Repository, completer llm.Completer, metrics *telemetry.ContentMetrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ideas:    ideas,
		articles: articles,
		llm:      completer,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate asks the language model for ideas about an article, stores
// up to NumIdeas of them and marks the article processed
func (s *Service) Generate(ctx context.Context, req GenerateIdeasRequest) (_ *GenerateIdeasResponse, err error) {
	ctx, span := telemetry.StartStep(ctx, telemetry.StepIdeasGenerate, telemetry.SpanArticleID.String(req.ArticleID.String()))
	defer func() { telemetry.EndStep(span, err) }()

	numIdeas := req.NumIdeas
	if numIdeas <= 0 {
		numIdeas = DefaultNumIdeas
	}
	if numIdeas > MaxNumIdeas {
		return nil, shared.InvalidInputf("num_ideas must be between 1 and %d", MaxNumIdeas)
	}
	styles, err := parseStyles(req.Styles)
	if err != nil {
		return nil, err
	}

	article, err := s.articles.FindByID(ctx, req.ArticleID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.InvalidInputf("Article %s not found", req.ArticleID)
	}
	if err != nil {
		return nil, err
	}
	if s.llm == nil {
		return nil, shared.ErrNotConfigured
	}

	s.logger.Info("Generating ideas",
		zap.String("article_id", article.ID.String()),
		zap.Int("num_ideas", numIdeas),
	)
	start := time.Now()
	content, err := s.llm.Complete(ctx, llm.Request{
		Prompt:      BuildPrompt(article, numIdeas, styles),
		MaxTokens:   ideaMaxTokens,
		Temperature: ideaTemperature,
	})
	s.metrics.ExternalCall(ctx, s.llm.Name(), time.Since(start), err)
	if errors.Is(err, llm.ErrNotConfigured) {
		return nil, shared.WrapDomainError(shared.CodeNotConfigured, "Language model API key is not configured", err)
	}
	if err != nil {
		s.logger.Error("Idea generation failed", zap.String("provider", s.llm.Name()), zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeExternalService, "Idea generation failed", err)
	}

	var drafts []idea.Draft
	if err := llm.ExtractJSONArray(content, &drafts); err != nil {
		s.logger.Error("Failed to parse idea response", zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeInvalidInput, idea.ErrInvalidResponse.Message, err)
	}

	fallback := idea.StyleComedic
	if len(styles) > 0 {
		fallback = styles[0]
	}
	ideas := make([]*idea.Idea, 0, numIdeas)
	for _, d := range drafts {
		if len(ideas) == numIdeas {
			break
		}
		i, err := idea.NewIdea(article.ID, d, fallback)
		if err != nil {
			s.logger.Warn("Skipping invalid idea", zap.Error(err))
			continue
		}
		ideas = append(ideas, i)
	}

	if err := s.ideas.SaveAll(ctx, ideas); err != nil {
		return nil, err
	}
	if !article.IsProcessed {
		article.MarkProcessed()
		if err := s.articles.Save(ctx, article); err != nil {
			return nil, err
		}
	}
	s.metrics.IdeasGenerated(ctx, len(ideas))
	span.SetAttributes(telemetry.SpanCount.Int(len(ideas)))

	out := make([]IdeaResponse, len(ideas))
	for i, v := range ideas {
		out[i] = ToIdeaResponse(v)
	}
	s.logger.Info("Ideas generated", zap.String("article_id", article.ID.String()), zap.Int("count", len(out)))
	return &GenerateIdeasResponse{
		ArticleID:      article.ID,
		IdeasGenerated: len(out),
		Ideas:          out,
	}, nil
}

func parseStyles(raw []string) ([]idea.Style, error) {
	styles := make([]idea.Style, 0, len(raw))
	for _, r := range raw {
		s := idea.Style(r)
		if !s.IsValid() {
			return nil, shared.InvalidInputf("unknown style %q", r)
		}
		styles = append(styles, s)
	}
	return styles, nil
}

// List returns a page of ideas, newest first unless order_by is set
func (s *Service) List(ctx context.Context, filter IdeaListFilter) (*shared.Paginated[IdeaResponse], error) {
	f := idea.Filter{
		Pagination: shared.Pagination{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
		IsApproved: filter.IsApproved,
	}
	if filter.ArticleID != "" {
		id, err := shared.ParseID(filter.ArticleID)
		if err != nil {
			return nil, err
		}
		f.ArticleID = &id
	}
	if filter.Style != "" {
		st := idea.Style(filter.Style)
		f.Style = &st
	}

	ideas, total, err := s.ideas.List(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToIdeaResponses(ideas), total, f.Page, f.PageSize)
	return &page, nil
}

// Get retrieves an idea by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*IdeaResponse, error) {
	i, err := s.ideas.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToIdeaResponse(i)
	return &resp, nil
}

// Idea returns the domain idea, for services building on it
func (s *Service) Idea(ctx context.Context, id uuid.UUID) (*idea.Idea, error) {
	return s.ideas.FindByID(ctx, id)
}

// Approve records an approval decision
func (s *Service) Approve(ctx context.Context, id uuid.UUID, req ApproveIdeaRequest) (*IdeaResponse, error) {
	i, err := s.ideas.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	i.SetApproval(req.IsApproved, req.ApprovedBy, s.now())
	if err := s.ideas.Save(ctx, i); err != nil {
		return nil, err
	}
	resp := ToIdeaResponse(i)
	return &resp, nil
}

// Delete removes an idea
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.ideas.Delete(ctx, id)
}
