package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/contentgen/backend/internal/application/idea"
	"github.com/contentgen/backend/internal/application/news"
	"github.com/contentgen/backend/internal/application/publishing"
	"github.com/contentgen/backend/internal/application/video"
	"github.com/contentgen/backend/internal/domain/shared"
	"github.com/contentgen/backend/internal/interfaces/http/middleware"
)

// newTestEngine builds an engine with request IDs and the json tag validator
func newTestEngine() *gin.Engine {
	middleware.SetupValidator()
	r := gin.New()
	r.Use(middleware.RequestID())
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pageOf[T any](items ...T) *shared.Paginated[T] {
	p := shared.NewPaginated(items, int64(len(items)), 1, shared.DefaultPageSize)
	return &p
}

type mockNewsService struct{ mock.Mock }

func (m *mockNewsService) FetchAndSave(ctx context.Context, req news.FetchNewsRequest) (*news.FetchNewsResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*news.FetchNewsResponse)
	return resp, args.Error(1)
}

func (m *mockNewsService) List(ctx context.Context, filter news.ArticleListFilter) (*shared.Paginated[news.ArticleResponse], error) {
	args := m.Called(ctx, filter)
	resp, _ := args.Get(0).(*shared.Paginated[news.ArticleResponse])
	return resp, args.Error(1)
}

func (m *mockNewsService) Get(ctx context.Context, id uuid.UUID) (*news.ArticleResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*news.ArticleResponse)
	return resp, args.Error(1)
}

func (m *mockNewsService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockIdeaService struct{ mock.Mock }

func (m *mockIdeaService) Generate(ctx context.Context, req idea.GenerateIdeasRequest) (*idea.GenerateIdeasResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*idea.GenerateIdeasResponse)
	return resp, args.Error(1)
}

func (m *mockIdeaService) List(ctx context.Context, filter idea.IdeaListFilter) (*shared.Paginated[idea.IdeaResponse], error) {
	args := m.Called(ctx, filter)
	resp, _ := args.Get(0).(*shared.Paginated[idea.IdeaResponse])
	return resp, args.Error(1)
}

func (m *mockIdeaService) Get(ctx context.Context, id uuid.UUID) (*idea.IdeaResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*idea.IdeaResponse)
	return resp, args.Error(1)
}

func (m *mockIdeaService) Approve(ctx context.Context, id uuid.UUID, req idea.ApproveIdeaRequest) (*idea.IdeaResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*idea.IdeaResponse)
	return resp, args.Error(1)
}

func (m *mockIdeaService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockVideoService struct{ mock.Mock }

func (m *mockVideoService) Create(ctx context.Context, req video.CreateVideoRequest) (*video.CreateVideoResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*video.CreateVideoResponse)
	return resp, args.Error(1)
}

func (m *mockVideoService) List(ctx context.Context, filter video.VideoListFilter) (*shared.Paginated[video.VideoResponse], error) {
	args := m.Called(ctx, filter)
	resp, _ := args.Get(0).(*shared.Paginated[video.VideoResponse])
	return resp, args.Error(1)
}

func (m *mockVideoService) Status(ctx context.Context, id string) (*video.VideoResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*video.VideoResponse)
	return resp, args.Error(1)
}

func (m *mockVideoService) Download(ctx context.Context, id string) (*video.DownloadResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*video.DownloadResponse)
	return resp, args.Error(1)
}

func (m *mockVideoService) Content(ctx context.Context, id string) (*os.File, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*os.File)
	return f, args.Error(1)
}

func (m *mockVideoService) PresignedURL(ctx context.Context, id string) (*video.PresignedURLResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*video.PresignedURLResponse)
	return resp, args.Error(1)
}

func (m *mockVideoService) Compatibility(ctx context.Context, id, platform string) (*video.CompatibilityResponse, error) {
	args := m.Called(ctx, id, platform)
	resp, _ := args.Get(0).(*video.CompatibilityResponse)
	return resp, args.Error(1)
}

func (m *mockVideoService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockVideoService) AvailableModels() map[string][]string {
	return m.Called().Get(0).(map[string][]string)
}

func (m *mockVideoService) ModelInfo(model string, seconds int) *video.ModelInfoResponse {
	resp, _ := m.Called(model, seconds).Get(0).(*video.ModelInfoResponse)
	return resp
}

type mockMetadataService struct{ mock.Mock }

func (m *mockMetadataService) GenerateMetadata(ctx context.Context, req publishing.GenerateMetadataRequest) (*publishing.MetadataResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*publishing.MetadataResponse)
	return resp, args.Error(1)
}

func (m *mockMetadataService) GenerateBulkMetadata(ctx context.Context, req publishing.BulkMetadataRequest) (*publishing.BulkMetadataResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*publishing.BulkMetadataResponse)
	return resp, args.Error(1)
}

type mockPublishService struct{ mock.Mock }

func (m *mockPublishService) PublishYouTube(ctx context.Context, req publishing.PublishRequest) (*publishing.PublishResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*publishing.PublishResponse)
	return resp, args.Error(1)
}

func (m *mockPublishService) BulkPublish(ctx context.Context, req publishing.BulkPublishRequest) ([]publishing.PublishResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).([]publishing.PublishResponse)
	return resp, args.Error(1)
}

func (m *mockPublishService) List(ctx context.Context, filter publishing.PublishListFilter) (*shared.Paginated[publishing.PublishResponse], error) {
	args := m.Called(ctx, filter)
	resp, _ := args.Get(0).(*shared.Paginated[publishing.PublishResponse])
	return resp, args.Error(1)
}

func (m *mockPublishService) Get(ctx context.Context, id uuid.UUID) (*publishing.PublishResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*publishing.PublishResponse)
	return resp, args.Error(1)
}

func (m *mockPublishService) Delete(ctx context.Context, id uuid.UUID, fromPlatform bool) (*publishing.DeleteResponse, error) {
	args := m.Called(ctx, id, fromPlatform)
	resp, _ := args.Get(0).(*publishing.DeleteResponse)
	return resp, args.Error(1)
}

func (m *mockPublishService) Analytics(ctx context.Context, id uuid.UUID, refresh bool) (*publishing.AnalyticsSnapshot, error) {
	args := m.Called(ctx, id, refresh)
	resp, _ := args.Get(0).(*publishing.AnalyticsSnapshot)
	return resp, args.Error(1)
}

func (m *mockPublishService) Retry(ctx context.Context, id uuid.UUID) (*publishing.PublishResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*publishing.PublishResponse)
	return resp, args.Error(1)
}

type mockCredentialService struct{ mock.Mock }

func (m *mockCredentialService) List(ctx context.Context) ([]publishing.CredentialResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]publishing.CredentialResponse)
	return resp, args.Error(1)
}

func (m *mockCredentialService) AuthURL(ctx context.Context, platform string) (*publishing.AuthURLResponse, error) {
	args := m.Called(ctx, platform)
	resp, _ := args.Get(0).(*publishing.AuthURLResponse)
	return resp, args.Error(1)
}

func (m *mockCredentialService) HandleCallback(ctx context.Context, platform, state, code string) (*publishing.CredentialResponse, error) {
	args := m.Called(ctx, platform, state, code)
	resp, _ := args.Get(0).(*publishing.CredentialResponse)
	return resp, args.Error(1)
}

func (m *mockCredentialService) Deactivate(ctx context.Context, platform string) (*publishing.CredentialResponse, error) {
	args := m.Called(ctx, platform)
	resp, _ := args.Get(0).(*publishing.CredentialResponse)
	return resp, args.Error(1)
}

var (
	_ NewsService       = (*mockNewsService)(nil)
	_ IdeaService       = (*mockIdeaService)(nil)
	_ VideoService      = (*mockVideoService)(nil)
	_ MetadataService   = (*mockMetadataService)(nil)
	_ PublishService    = (*mockPublishService)(nil)
	_ CredentialService = (*mockCredentialService)(nil)
)
