package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:      config.AppConfig{Name: "content-gen-test", Env: "test", Port: "0"},
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"},
		Log:      config.LogConfig{Level: "error"},
		HTTP: config.HTTPConfig{
			MaxBodySize:       1 << 20,
			RateLimitEnabled:  true,
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Video: config.VideoConfig{
			StoragePath:    t.TempDir(),
			MaxPollTimeout: time.Second,
			PollInterval:   10 * time.Millisecond,
			DefaultModel:   "auto",
			DefaultSize:    "1280x720",
			DefaultSeconds: 8,
		},
		Scheduler: config.SchedulerConfig{
			PublishInterval:   time.Minute,
			VideoPollInterval: 15 * time.Second,
			AnalyticsInterval: time.Hour,
			JobTimeout:        10 * time.Minute,
		},
		Telemetry: config.TelemetryConfig{ServiceName: "content-gen-test"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestNew_WiresServices(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	assert.NotNil(t, a.DB)
	assert.NotNil(t, a.News)
	assert.NotNil(t, a.Ideas)
	assert.NotNil(t, a.Videos)
	assert.NotNil(t, a.Metadata)
	assert.NotNil(t, a.Publish)
	assert.NotNil(t, a.Credentials)
	assert.NotNil(t, a.YouTube)
	assert.NoError(t, a.DB.Ping())
}

func TestNew_UnknownLLMProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.LLMProvider = "mistral"

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestEngine_HealthAndRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := newTestApp(t, testConfig(t))
	engine, stop := a.Engine()
	defer stop()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/news", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/videos/models", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sora-2")
}

func TestJobs(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg)

	names := func() []string {
		var out []string
		for _, j := range a.Jobs() {
			out = append(out, j.Name)
		}
		return out
	}
	assert.Equal(t, []string{JobVideoSync}, names())

	cfg.Scheduler.EnableScheduledPublishing = true
	cfg.Scheduler.AnalyticsEnabled = true
	assert.Equal(t, []string{JobVideoSync, JobScheduledPublish, JobAnalyticsRefresh}, names())
	for _, j := range a.Jobs() {
		assert.Equal(t, 10*time.Minute, j.Timeout, j.Name)
	}

	runner, err := a.Scheduler()
	require.NoError(t, err)
	assert.Len(t, runner.Jobs(), 3)
}

func TestCorsConfig(t *testing.T) {
	c := corsConfig([]string{"https://app.example.com"}, nil, nil)
	assert.Equal(t, []string{"https://app.example.com"}, c.AllowOrigins)
	assert.NotEmpty(t, c.AllowMethods)
	assert.NotEmpty(t, c.AllowHeaders)
}
