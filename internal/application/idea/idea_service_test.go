package idea

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/contentgen/backend/internal/domain/idea"
	"github.com/contentgen/backend/internal/domain/news"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/infrastructure/llm"
)

// MockIdeaRepository is a mock implementation of idea.Repository
type MockIdeaRepository struct {
	mock.Mock
}

func (m *MockIdeaRepository) FindByID(ctx context.Context, id uuid.UUID) (*idea.Idea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idea.Idea), args.Error(1)
}

func (m *MockIdeaRepository) List(ctx context.Context, filter idea.Filter) ([]idea.Idea, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]idea.Idea), args.Get(1).(int64), args.Error(2)
}

func (m *MockIdeaRepository) Save(ctx context.Context, i *idea.Idea) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockIdeaRepository) SaveAll(ctx context.Context, ideas []*idea.Idea) error {
	return m.Called(ctx, ideas).Error(0)
}

func (m *MockIdeaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockArticleRepository is a mock implementation of news.Repository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*news.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*news.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByURL(ctx context.Context, url string) (*news.Article, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*news.Article), args.Error(1)
}

func (m *MockArticleRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	args := m.Called(ctx, url)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, filter news.Filter) ([]news.Article, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]news.Article), args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleRepository) Save(ctx context.Context, a *news.Article) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type fakeCompleter struct {
	reply string
	err   error
	got   llm.Request
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.got = req
	return f.reply, f.err
}

func testArticle() *news.Article {
	return &news.Article{
		ID:       uuid.New(),
		Title:    "Senator trips on stage",
		URL:      "https://news.example/trip",
		Source:   "Example News",
		Category: news.CategoryPolitics,
	}
}

const threeIdeas = "Here you go:\n```json\n[" +
	`{"title":"One","concept":"c1","video_prompt":"p1","style":"dramatic","estimated_duration":45},` +
	`{"title":"Two","concept":"c2","video_prompt":"p2","style":"unknown","estimated_duration":500},` +
	`{"title":"Three","concept":"c3","video_prompt":"p3","style":"meme"}` +
	"]\n```"

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	article := testArticle()
	ideas := new(MockIdeaRepository)
	articles := new(MockArticleRepository)
	completer := &fakeCompleter{reply: threeIdeas}

	articles.On("FindByID", ctx, article.ID).Return(article, nil)
	articles.On("Save", ctx, mock.MatchedBy(func(a *news.Article) bool { return a.IsProcessed })).Return(nil)
	ideas.On("SaveAll", ctx, mock.MatchedBy(func(v []*idea.Idea) bool { return len(v) == 2 })).Return(nil)

	svc := NewService(ideas, articles, completer, nil, nil)
	resp, err := svc.Generate(ctx, GenerateIdeasRequest{
		ArticleID: article.ID,
		NumIdeas:  2,
		Styles:    []string{"satirical"},
	})
	require.NoError(t, err)

	assert.Equal(t, article.ID, resp.ArticleID)
	assert.Equal(t, 2, resp.IdeasGenerated)
	require.Len(t, resp.Ideas, 2)
	assert.Equal(t, "dramatic", resp.Ideas[0].Style)
	assert.Equal(t, "satirical", resp.Ideas[1].Style)
	assert.Equal(t, idea.MaxDuration, resp.Ideas[1].EstimatedDuration)

	assert.Equal(t, 4000, completer.got.MaxTokens)
	assert.InDelta(t, 0.9, completer.got.Temperature, 1e-9)
	assert.Contains(t, completer.got.Prompt, "Generate 2 creative")
	assert.Contains(t, completer.got.Prompt, "Focus on these styles: satirical")
	ideas.AssertExpectations(t)
	articles.AssertExpectations(t)
}

func TestService_Generate_LooseDurations(t *testing.T) {
	ctx := context.Background()
	article := testArticle()
	ideas := new(MockIdeaRepository)
	articles := new(MockArticleRepository)
	completer := &fakeCompleter{reply: `[` +
		`{"title":"One","video_prompt":"p1","style":"meme","estimated_duration":45.0},` +
		`{"title":"Two","video_prompt":"p2","style":"meme","estimated_duration":52.5},` +
		`{"title":"Three","video_prompt":"p3","style":"meme","estimated_duration":"30"},` +
		`{"title":"Four","video_prompt":"p4","style":"meme","estimated_duration":"a while"}]`}

	articles.On("FindByID", ctx, article.ID).Return(article, nil)
	articles.On("Save", ctx, mock.Anything).Return(nil)
	ideas.On("SaveAll", ctx, mock.MatchedBy(func(v []*idea.Idea) bool { return len(v) == 4 })).Return(nil)

	svc := NewService(ideas, articles, completer, nil, nil)
	resp, err := svc.Generate(ctx, GenerateIdeasRequest{ArticleID: article.ID, NumIdeas: 4})
	require.NoError(t, err)
	require.Len(t, resp.Ideas, 4)

	var durations []int
	for _, i := range resp.Ideas {
		durations = append(durations, i.EstimatedDuration)
	}
	assert.Equal(t, []int{45, 53, 30, idea.DefaultDuration}, durations)
	ideas.AssertExpectations(t)
}

func TestService_Generate_ArticleMissing(t *testing.T) {
	ctx := context.Background()
	articles := new(MockArticleRepository)
	id := uuid.New()
	articles.On("FindByID", ctx, id).Return(nil, news.ErrArticleNotFound)

	svc := NewService(new(MockIdeaRepository), articles, &fakeCompleter{}, nil, nil)
	_, err := svc.Generate(ctx, GenerateIdeasRequest{ArticleID: id})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	assert.Contains(t, err.Error(), id.String())
}

func TestService_Generate_Errors(t *testing.T) {
	ctx := context.Background()
	article := testArticle()

	tests := []struct {
		name      string
		completer *fakeCompleter
		req       GenerateIdeasRequest
		want      error
	}{
		{"not configured", &fakeCompleter{err: llm.ErrNotConfigured}, GenerateIdeasRequest{}, shared.ErrNotConfigured},
		{"provider failure", &fakeCompleter{err: errors.New("boom")}, GenerateIdeasRequest{}, shared.ErrExternalService},
		{"no json", &fakeCompleter{reply: "sorry, no ideas today"}, GenerateIdeasRequest{}, shared.ErrInvalidInput},
		{"bad style", &fakeCompleter{}, GenerateIdeasRequest{Styles: []string{"horror"}}, shared.ErrInvalidInput},
		{"too many", &fakeCompleter{}, GenerateIdeasRequest{NumIdeas: 11}, shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles := new(MockArticleRepository)
			articles.On("FindByID", ctx, article.ID).Return(article, nil).Maybe()

			tt.req.ArticleID = article.ID
			svc := NewService(new(MockIdeaRepository), articles, tt.completer, nil, nil)
			_, err := svc.Generate(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	a := testArticle()
	a.Content = strings.Repeat("x", 1000)

	p := BuildPrompt(a, 5, nil)
	assert.Contains(t, p, "Title: Senator trips on stage")
	assert.Contains(t, p, "Description: N/A")
	assert.Contains(t, p, "Content: "+strings.Repeat("x", 800)+"\n")
	assert.Contains(t, p, "Create a diverse mix of styles: comedic, dramatic")
	assert.Contains(t, p, "Generate 5 unique ideas now.")
}

func TestService_Approve(t *testing.T) {
	ctx := context.Background()
	repo := new(MockIdeaRepository)
	i := &idea.Idea{ID: uuid.New(), Title: "t"}
	repo.On("FindByID", ctx, i.ID).Return(i, nil)
	repo.On("Save", ctx, i).Return(nil)

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewService(repo, nil, nil, nil, nil)
	svc.now = func() time.Time { return now }

	resp, err := svc.Approve(ctx, i.ID, ApproveIdeaRequest{IsApproved: true, ApprovedBy: "editor"})
	require.NoError(t, err)
	assert.True(t, resp.IsApproved)
	assert.Equal(t, "editor", resp.ApprovedBy)
	require.NotNil(t, resp.ApprovedAt)
	assert.Equal(t, now, *resp.ApprovedAt)

	resp, err = svc.Approve(ctx, i.ID, ApproveIdeaRequest{IsApproved: false})
	require.NoError(t, err)
	assert.False(t, resp.IsApproved)
	assert.Nil(t, resp.ApprovedAt)
	assert.Equal(t, "editor", resp.ApprovedBy)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockIdeaRepository)
	articleID := uuid.New()
	style := idea.StyleMeme
	repo.On("List", ctx, idea.Filter{
		Pagination: shared.Pagination{Page: 1, PageSize: shared.DefaultPageSize},
		ArticleID:  &articleID,
		Style:      &style,
	}).Return([]idea.Idea{{ID: uuid.New(), Style: idea.StyleMeme}}, int64(1), nil)

	svc := NewService(repo, nil, nil, nil, nil)
	page, err := svc.List(ctx, IdeaListFilter{ArticleID: articleID.String(), Style: "meme"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "meme", page.Items[0].Style)
}
