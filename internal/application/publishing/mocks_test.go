package publishing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/contentgen/backend/internal/domain/publishing"
	"github.com/contentgen/backend/internal/infrastructure/llm"
	"github.com/contentgen/backend/internal/infrastructure/youtube"
)

// MockPublishedVideoRepository is a mock implementation of publishing.PublishedVideoRepository
type MockPublishedVideoRepository struct {
	mock.Mock
}

func (m *MockPublishedVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*publishing.PublishedVideo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publishing.PublishedVideo), args.Error(1)
}

func (m *MockPublishedVideoRepository) List(ctx context.Context, filter publishing.Filter) ([]publishing.PublishedVideo, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]publishing.PublishedVideo), args.Get(1).(int64), args.Error(2)
}

func (m *MockPublishedVideoRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]publishing.PublishedVideo, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]publishing.PublishedVideo), args.Error(1)
}

func (m *MockPublishedVideoRepository) ListForAnalytics(ctx context.Context, platform publishing.Platform, limit int) ([]publishing.PublishedVideo, error) {
	args := m.Called(ctx, platform, limit)
	return args.Get(0).([]publishing.PublishedVideo), args.Error(1)
}

func (m *MockPublishedVideoRepository) Save(ctx context.Context, v *publishing.PublishedVideo) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockPublishedVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCredentialRepository is a mock implementation of publishing.CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindByPlatform(ctx context.Context, p publishing.Platform) (*publishing.PlatformCredential, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publishing.PlatformCredential), args.Error(1)
}

func (m *MockCredentialRepository) FindActive(ctx context.Context, p publishing.Platform) (*publishing.PlatformCredential, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publishing.PlatformCredential), args.Error(1)
}

func (m *MockCredentialRepository) List(ctx context.Context) ([]publishing.PlatformCredential, error) {
	args := m.Called(ctx)
	return args.Get(0).([]publishing.PlatformCredential), args.Error(1)
}

func (m *MockCredentialRepository) Save(ctx context.Context, c *publishing.PlatformCredential) error {
	return m.Called(ctx, c).Error(0)
}

// MockUploader is a mock implementation of Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadVideo(ctx context.Context, path string, meta publishing.Metadata, thumbnailPath string) (*youtube.UploadResult, error) {
	args := m.Called(ctx, path, meta, thumbnailPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*youtube.UploadResult), args.Error(1)
}

func (m *MockUploader) DeleteVideo(ctx context.Context, videoID string) error {
	return m.Called(ctx, videoID).Error(0)
}

func (m *MockUploader) GetVideoStats(ctx context.Context, videoID string) (*youtube.VideoStats, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*youtube.VideoStats), args.Error(1)
}

// fakeOAuth serves a fixed token and channel list
type fakeOAuth struct {
	token       *oauth2.Token
	exchangeErr error
	channels    []youtube.Channel
}

func (f *fakeOAuth) AuthCodeURL(state string) (string, error) {
	return "https://accounts.example/auth?state=" + state, nil
}

func (f *fakeOAuth) Exchange(_ context.Context, _ string) (*oauth2.Token, error) {
	return f.token, f.exchangeErr
}

func (f *fakeOAuth) ListChannelsWithToken(context.Context, *oauth2.Token) ([]youtube.Channel, error) {
	return f.channels, nil
}

// scriptedCompleter answers per platform, keyed by a marker in the prompt
type scriptedCompleter struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	calls   []llm.Request
}

func (s *scriptedCompleter) Name() string { return "scripted" }

func (s *scriptedCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	for platform, err := range s.errs {
		if containsPlatform(req.Prompt, platform) {
			return "", err
		}
	}
	for platform, reply := range s.replies {
		if containsPlatform(req.Prompt, platform) {
			return reply, nil
		}
	}
	return "", nil
}

func containsPlatform(prompt, platform string) bool {
	return strings.Contains(prompt, "published on "+platform+".")
}

// tempFiles is a VideoFiles over a temp directory
type tempFiles struct {
	root string
}

func (t tempFiles) Path(name string) string { return filepath.Join(t.root, name) }

func (t tempFiles) Exists(name string) bool {
	_, err := os.Stat(t.Path(name))
	return err == nil
}

func (t tempFiles) write(name string) {
	_ = os.WriteFile(t.Path(name), []byte("video"), 0o644)
}
