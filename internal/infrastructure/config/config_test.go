package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "this-is-a-very-secure-secret-with-32-chars"

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "content-gen-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "./content_gen.db", cfg.Database.SQLitePath)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "./videos", cfg.Video.StoragePath)
		assert.Equal(t, 600*time.Second, cfg.Video.MaxPollTimeout)
		assert.Equal(t, 5*time.Second, cfg.Video.PollInterval)
		assert.Equal(t, "sora-2", cfg.Video.DefaultModel)
		assert.Equal(t, 4, cfg.Video.DefaultSeconds)
		assert.Equal(t, "anthropic", cfg.AI.LLMProvider)
		assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.AI.LLMModel)
		assert.Equal(t, "https://api.kie.ai", cfg.AI.KieBaseURL)
		assert.Equal(t, 10*time.Second, cfg.News.RequestTimeout)
		assert.Equal(t, "./credentials/youtube_token.json", cfg.YouTube.TokenFile)
		assert.Equal(t, 1<<20, cfg.YouTube.UploadChunkSize)
		assert.Equal(t, 10*time.Minute, cfg.Security.OAuthStateTTL)
		assert.False(t, cfg.Scheduler.EnableScheduledPublishing)
		assert.Equal(t, 6*time.Hour, cfg.Scheduler.AnalyticsInterval)
		assert.Equal(t, 15*time.Minute, cfg.Scheduler.JobTimeout)
		assert.True(t, cfg.HTTP.SwaggerEnabled)
		assert.Equal(t, []string{"http://localhost:3333", "http://localhost:3334", "http://localhost:5173"}, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("loads values from environment variables with CG prefix", func(t *testing.T) {
		t.Setenv("CG_APP_PORT", "9000")
		t.Setenv("CG_DATABASE_DRIVER", "postgres")
		t.Setenv("CG_DATABASE_HOST", "db.local")
		t.Setenv("CG_AI_ANTHROPIC_API_KEY", "sk-ant-test")
		t.Setenv("CG_AI_LLM_PROVIDER", "gemini")
		t.Setenv("CG_VIDEO_DEFAULT_MODEL", "auto")
		t.Setenv("CG_SCHEDULER_PUBLISH_INTERVAL", "30s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, "sk-ant-test", cfg.AI.AnthropicAPIKey)
		assert.Equal(t, "gemini-2.5-flash", cfg.AI.LLMModel)
		assert.Equal(t, "auto", cfg.Video.DefaultModel)
		assert.Equal(t, 30*time.Second, cfg.Scheduler.PublishInterval)
		assert.Equal(t, "http://localhost:9000/api/v1/credentials/youtube/callback", cfg.YouTube.RedirectURL)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		t.Setenv("CG_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("rejects unknown llm provider", func(t *testing.T) {
		t.Setenv("CG_AI_LLM_PROVIDER", "cohere")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ai.llm_provider")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("CG_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("CG_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("requires bucket when s3 is enabled", func(t *testing.T) {
		t.Setenv("CG_STORAGE_S3_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.s3_bucket")
	})

	t.Run("job timeout cannot outlive the job lock", func(t *testing.T) {
		t.Setenv("CG_SCHEDULER_JOB_TIMEOUT", "45m")
		t.Setenv("CG_SCHEDULER_LOCK_TTL", "30m")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler.job_timeout")
	})

	t.Run("validates sampling ratio", func(t *testing.T) {
		t.Setenv("CG_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("CG_APP_ENV", "production")
		t.Setenv("CG_SECURITY_TOKEN_ENCRYPTION_KEY", strongSecret)
		t.Setenv("CG_SECURITY_OAUTH_STATE_SECRET", strongSecret)
	}

	t.Run("requires token encryption key in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("CG_SECURITY_TOKEN_ENCRYPTION_KEY", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "security.token_encryption_key")
	})

	t.Run("requires oauth state secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("CG_SECURITY_OAUTH_STATE_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "security.oauth_state_secret")
	})

	t.Run("rejects wildcard CORS in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("CG_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("requires SSL for postgres in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("CG_DATABASE_DRIVER", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CG_NEWS_NEWSAPI_KEY=from-dotenv\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("CG_NEWS_NEWSAPI_KEY")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.News.NewsAPIKey)
}

func TestFromViper_ConfigValues(t *testing.T) {
	v := viper.New()
	v.Set("video.storage_path", "/data/videos")
	v.Set("http.swagger_enabled", false)
	v.Set("storage.s3_enabled", true)
	v.Set("storage.s3_bucket", "renders")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "/data/videos", cfg.Video.StoragePath)
	assert.False(t, cfg.HTTP.SwaggerEnabled)
	assert.Equal(t, "renders", cfg.Storage.S3Bucket)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiration)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
