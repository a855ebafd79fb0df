package publishing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/contentgen/backend/internal/domain/idea"
	"github.com/contentgen/backend/internal/domain/news"
	"github.com/contentgen/backend/internal/domain/publishing"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/infrastructure/llm"
	"github.com/contentgen/backend/internal/infrastructure/youtube"
)

const (
	metadataMaxTokens   = 2000
	metadataTemperature = 0.7
	bulkConcurrency     = 3
)

// generatedMetadata is the JSON object returned by the language model.
// Pointer fields distinguish absent keys from zero values.
type generatedMetadata struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Tags          *[]string `json:"tags"`
	Category      string    `json:"category"`
	CategoryID    string    `json:"category_id"`
	Privacy       string    `json:"privacy"`
	MadeForKids   *bool     `json:"made_for_kids"`
	AllowDuet     *bool     `json:"allow_duet"`
	AllowStitch   *bool     `json:"allow_stitch"`
	AllowComments *bool     `json:"allow_comments"`
	ShareToFeed   *bool     `json:"share_to_feed"`
}

// MetadataService writes platform-optimised titles, descriptions and tags
type MetadataService struct {
	llm      llm.Completer
	ideas    idea.Repository
	articles news.Repository
	logger   *zap.Logger
}

// NewMetadataService creates a new MetadataService
func NewMetadataService(completer llm.Completer, ideas idea.Repository, articles news.Repository, logger *zap.Logger) *MetadataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataService{
		llm:      completer,
		ideas:    ideas,
		articles: articles,
		logger:   logger,
	}
}

// GenerateMetadata produces metadata for one platform. The video is
// described by req.Prompt or, failing that, by the linked idea.
func (s *MetadataService) GenerateMetadata(ctx context.Context, req GenerateMetadataRequest) (*MetadataResponse, error) {
	platform, err := publishing.ParsePlatform(req.Platform)
	if err != nil {
		return nil, err
	}
	pc := s.promptContext(ctx, req.Prompt, req.IdeaID)
	pc.TargetAudience = req.TargetAudience
	pc.Tone = req.Tone
	return s.generate(ctx, req.VideoID, platform, pc)
}

// GenerateBulkMetadata produces metadata for several platforms
// concurrently. Platforms that fail are logged and left out.
func (s *MetadataService) GenerateBulkMetadata(ctx context.Context, req BulkMetadataRequest) (*BulkMetadataResponse, error) {
	platforms := make([]publishing.Platform, 0, len(req.Platforms))
	for _, raw := range req.Platforms {
		p, err := publishing.ParsePlatform(raw)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}

	pc := s.promptContext(ctx, req.Prompt, req.IdeaID)
	pc.TargetAudience = req.TargetAudience
	pc.Tone = req.Tone

	var (
		mu      sync.Mutex
		results = make(map[string]MetadataResponse, len(platforms))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for _, p := range platforms {
		g.Go(func() error {
			resp, err := s.generate(gctx, req.VideoID, p, pc)
			if err != nil {
				s.logger.Error("Failed to generate metadata",
					zap.String("platform", string(p)),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			results[string(p)] = *resp
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return &BulkMetadataResponse{VideoID: req.VideoID, Results: results}, nil
}

// promptContext resolves the video description and article context
func (s *MetadataService) promptContext(ctx context.Context, prompt string, ideaID *uuid.UUID) promptContext {
	pc := promptContext{VideoPrompt: prompt}
	if ideaID == nil || s.ideas == nil {
		return pc
	}
	i, err := s.ideas.FindByID(ctx, *ideaID)
	if err != nil {
		s.logger.Warn("Idea not found for metadata context", zap.String("idea_id", ideaID.String()), zap.Error(err))
		return pc
	}
	if pc.VideoPrompt == "" {
		pc.VideoPrompt = i.VideoPrompt
	}
	if s.articles == nil {
		return pc
	}
	a, err := s.articles.FindByID(ctx, i.ArticleID)
	if err != nil {
		s.logger.Warn("Article not found for metadata context", zap.String("article_id", i.ArticleID.String()), zap.Error(err))
		return pc
	}
	pc.ArticleContext = "Title: " + a.Title
	if a.Description != "" {
		pc.ArticleContext += "\nDescription: " + a.Description
	}
	return pc
}

func (s *MetadataService) generate(ctx context.Context, videoID string, p publishing.Platform, pc promptContext) (*MetadataResponse, error) {
	if s.llm == nil {
		return nil, shared.ErrNotConfigured
	}
	g := GuidelinesFor(p)

	s.logger.Info("Generating metadata", zap.String("platform", string(p)), zap.String("video_id", videoID))
	content, err := s.llm.Complete(ctx, llm.Request{
		System:      BuildSystemPrompt(p, g),
		Prompt:      BuildUserPrompt(p, g, pc),
		MaxTokens:   metadataMaxTokens,
		Temperature: metadataTemperature,
	})
	if errors.Is(err, llm.ErrNotConfigured) {
		return nil, shared.WrapDomainError(shared.CodeNotConfigured, "Language model API key is not configured", err)
	}
	if err != nil {
		s.logger.Error("Metadata generation failed", zap.String("provider", s.llm.Name()), zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeExternalService, "Metadata generation failed", err)
	}

	var gm generatedMetadata
	if err := llm.ExtractJSONObject(content, &gm); err != nil {
		s.logger.Error("Failed to parse metadata response", zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeExternalService, "Invalid JSON response from language model", err)
	}
	return buildMetadataResponse(videoID, p, gm)
}

func buildMetadataResponse(videoID string, p publishing.Platform, gm generatedMetadata) (*MetadataResponse, error) {
	switch {
	case gm.Title == nil:
		return nil, missingKey("title")
	case gm.Description == nil:
		return nil, missingKey("description")
	case gm.Tags == nil:
		return nil, missingKey("tags")
	}

	tags := *gm.Tags
	if p == publishing.PlatformYouTube {
		tags = youtube.SanitizeTags(tags)
	}
	if tags == nil {
		tags = []string{}
	}
	privacy := publishing.Privacy(gm.Privacy)
	if !privacy.IsValid() {
		privacy = publishing.PrivacyPublic
	}

	resp := &MetadataResponse{
		VideoID:     videoID,
		Platform:    string(p),
		Title:       *gm.Title,
		Description: *gm.Description,
		Tags:        tags,
		Category:    gm.Category,
	}
	switch p {
	case publishing.PlatformYouTube:
		categoryID := gm.CategoryID
		if categoryID == "" {
			categoryID = youtube.DefaultCategoryID
		}
		resp.YouTube = &YouTubeMetadata{
			CategoryID:  categoryID,
			MadeForKids: boolOr(gm.MadeForKids, false),
			Privacy:     string(privacy),
		}
	case publishing.PlatformTikTok:
		resp.TikTok = &TikTokMetadata{
			Privacy:       string(privacy),
			AllowDuet:     boolOr(gm.AllowDuet, true),
			AllowStitch:   boolOr(gm.AllowStitch, true),
			AllowComments: boolOr(gm.AllowComments, true),
		}
	case publishing.PlatformInstagram:
		resp.Instagram = &InstagramMetadata{
			Privacy:       string(privacy),
			ShareToFeed:   boolOr(gm.ShareToFeed, true),
			AllowComments: boolOr(gm.AllowComments, true),
		}
	}
	return resp, nil
}

func missingKey(key string) error {
	return shared.NewDomainError(shared.CodeExternalService, fmt.Sprintf("Language model response is missing %q", key))
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
