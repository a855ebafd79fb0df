package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "CG"
	minSecretBytes = 32
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Video     VideoConfig
	AI        AIConfig
	News      NewsConfig
	YouTube   YouTubeConfig
	TikTok    TikTokConfig
	Instagram InstagramConfig
	Security  SecurityConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the app runs with production safeguards
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // sqlite, postgres
	SQLitePath      string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
	SwaggerEnabled    bool
}

// VideoConfig holds video generation and local storage settings
type VideoConfig struct {
	StoragePath    string
	MaxPollTimeout time.Duration
	PollInterval   time.Duration
	DefaultModel   string
	DefaultSize    string
	DefaultSeconds int
	MaxFileSize    int64
}

// AIConfig holds LLM and video provider credentials
type AIConfig struct {
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	GeminiAPIKey     string
	LLMProvider      string // anthropic, gemini
	LLMModel         string
	LLMTimeout       time.Duration
	KieAPIKey        string
	KieBaseURL       string
	RequestTimeout   time.Duration
}

// NewsConfig holds news source API keys
type NewsConfig struct {
	NewsAPIKey     string
	GNewsAPIKey    string
	GuardianAPIKey string
	RequestTimeout time.Duration
}

// YouTubeConfig holds YouTube OAuth and upload settings
type YouTubeConfig struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	CredentialsFile string
	TokenFile       string
	UploadChunkSize int
}

// TikTokConfig is stored for future publishing support
type TikTokConfig struct {
	ClientKey    string
	ClientSecret string
	AccessToken  string
}

// InstagramConfig is stored for future publishing support
type InstagramConfig struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
}

// SecurityConfig holds secrets for token encryption and OAuth state signing
type SecurityConfig struct {
	TokenEncryptionKey string
	OAuthStateSecret   string
	OAuthStateTTL      time.Duration
}

// StorageConfig holds the optional S3 mirror for rendered videos
type StorageConfig struct {
	S3Enabled         bool
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
	PresignExpiration time.Duration
}

// SchedulerConfig holds background job settings
type SchedulerConfig struct {
	EnableScheduledPublishing bool
	PublishInterval           time.Duration
	VideoPollInterval         time.Duration
	AnalyticsEnabled          bool
	AnalyticsInterval         time.Duration
	LockTTL                   time.Duration
	JobTimeout                time.Duration // bounds one run of any job
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
	DBSlowQuery       time.Duration // statements at or above this get a span event
	MetricsInterval   time.Duration
	ExportLogs        bool // tee application logs to the collector
}

// Load loads configuration from .env, config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with CG_ prefix (e.g., CG_AI_ANTHROPIC_API_KEY)
// 2. .env in the working directory (never overrides the real environment)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
			SwaggerEnabled:    !v.IsSet("http.swagger_enabled") || v.GetBool("http.swagger_enabled"),
		},
		Video: VideoConfig{
			StoragePath:    v.GetString("video.storage_path"),
			MaxPollTimeout: v.GetDuration("video.max_poll_timeout"),
			PollInterval:   v.GetDuration("video.poll_interval"),
			DefaultModel:   v.GetString("video.default_model"),
			DefaultSize:    v.GetString("video.default_size"),
			DefaultSeconds: v.GetInt("video.default_seconds"),
			MaxFileSize:    v.GetInt64("video.max_file_size"),
		},
		AI: AIConfig{
			OpenAIAPIKey:     v.GetString("ai.openai_api_key"),
			OpenAIBaseURL:    v.GetString("ai.openai_base_url"),
			AnthropicAPIKey:  v.GetString("ai.anthropic_api_key"),
			AnthropicBaseURL: v.GetString("ai.anthropic_base_url"),
			GeminiAPIKey:     v.GetString("ai.gemini_api_key"),
			LLMProvider:      v.GetString("ai.llm_provider"),
			LLMModel:         v.GetString("ai.llm_model"),
			LLMTimeout:       v.GetDuration("ai.llm_timeout"),
			KieAPIKey:        v.GetString("ai.kie_api_key"),
			KieBaseURL:       v.GetString("ai.kie_base_url"),
			RequestTimeout:   v.GetDuration("ai.request_timeout"),
		},
		News: NewsConfig{
			NewsAPIKey:     v.GetString("news.newsapi_key"),
			GNewsAPIKey:    v.GetString("news.gnews_api_key"),
			GuardianAPIKey: v.GetString("news.guardian_api_key"),
			RequestTimeout: v.GetDuration("news.request_timeout"),
		},
		YouTube: YouTubeConfig{
			ClientID:        v.GetString("youtube.client_id"),
			ClientSecret:    v.GetString("youtube.client_secret"),
			RedirectURL:     v.GetString("youtube.redirect_url"),
			CredentialsFile: v.GetString("youtube.credentials_file"),
			TokenFile:       v.GetString("youtube.token_file"),
			UploadChunkSize: v.GetInt("youtube.upload_chunk_size"),
		},
		TikTok: TikTokConfig{
			ClientKey:    v.GetString("tiktok.client_key"),
			ClientSecret: v.GetString("tiktok.client_secret"),
			AccessToken:  v.GetString("tiktok.access_token"),
		},
		Instagram: InstagramConfig{
			ClientID:     v.GetString("instagram.client_id"),
			ClientSecret: v.GetString("instagram.client_secret"),
			AccessToken:  v.GetString("instagram.access_token"),
		},
		Security: SecurityConfig{
			TokenEncryptionKey: v.GetString("security.token_encryption_key"),
			OAuthStateSecret:   v.GetString("security.oauth_state_secret"),
			OAuthStateTTL:      v.GetDuration("security.oauth_state_ttl"),
		},
		Storage: StorageConfig{
			S3Enabled:         v.GetBool("storage.s3_enabled"),
			S3Endpoint:        v.GetString("storage.s3_endpoint"),
			S3Region:          v.GetString("storage.s3_region"),
			S3Bucket:          v.GetString("storage.s3_bucket"),
			S3AccessKeyID:     v.GetString("storage.s3_access_key_id"),
			S3SecretAccessKey: v.GetString("storage.s3_secret_access_key"),
			S3UsePathStyle:    v.GetBool("storage.s3_use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Scheduler: SchedulerConfig{
			EnableScheduledPublishing: v.GetBool("scheduler.enable_scheduled_publishing"),
			PublishInterval:           v.GetDuration("scheduler.publish_interval"),
			VideoPollInterval:         v.GetDuration("scheduler.video_poll_interval"),
			AnalyticsEnabled:          v.GetBool("scheduler.analytics_enabled"),
			AnalyticsInterval:         v.GetDuration("scheduler.analytics_interval"),
			LockTTL:                   v.GetDuration("scheduler.lock_ttl"),
			JobTimeout:                v.GetDuration("scheduler.job_timeout"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBSlowQuery:       v.GetDuration("telemetry.db_slow_query"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			ExportLogs:        v.GetBool("telemetry.export_logs"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "content-gen-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8000"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "./content_gen.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "content_gen"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	// Content streaming and synchronous uploads need a long write window
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 10 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"http://localhost:3333", "http://localhost:3334", "http://localhost:5173"}
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	if cfg.Video.StoragePath == "" {
		cfg.Video.StoragePath = "./videos"
	}
	if cfg.Video.MaxPollTimeout == 0 {
		cfg.Video.MaxPollTimeout = 600 * time.Second
	}
	if cfg.Video.PollInterval == 0 {
		cfg.Video.PollInterval = 5 * time.Second
	}
	if cfg.Video.DefaultModel == "" {
		cfg.Video.DefaultModel = "sora-2"
	}
	if cfg.Video.DefaultSize == "" {
		cfg.Video.DefaultSize = "1280x720"
	}
	if cfg.Video.DefaultSeconds == 0 {
		cfg.Video.DefaultSeconds = 4
	}
	if cfg.Video.MaxFileSize == 0 {
		cfg.Video.MaxFileSize = 10 << 20
	}

	if cfg.AI.OpenAIBaseURL == "" {
		cfg.AI.OpenAIBaseURL = "https://api.openai.com"
	}
	if cfg.AI.AnthropicBaseURL == "" {
		cfg.AI.AnthropicBaseURL = "https://api.anthropic.com"
	}
	if cfg.AI.LLMProvider == "" {
		cfg.AI.LLMProvider = "anthropic"
	}
	if cfg.AI.LLMModel == "" {
		if cfg.AI.LLMProvider == "gemini" {
			cfg.AI.LLMModel = "gemini-2.5-flash"
		} else {
			cfg.AI.LLMModel = "claude-3-5-sonnet-20241022"
		}
	}
	if cfg.AI.LLMTimeout == 0 {
		cfg.AI.LLMTimeout = 2 * time.Minute
	}
	if cfg.AI.KieBaseURL == "" {
		cfg.AI.KieBaseURL = "https://api.kie.ai"
	}
	if cfg.AI.RequestTimeout == 0 {
		cfg.AI.RequestTimeout = 60 * time.Second
	}

	if cfg.News.RequestTimeout == 0 {
		cfg.News.RequestTimeout = 10 * time.Second
	}

	if cfg.YouTube.CredentialsFile == "" {
		cfg.YouTube.CredentialsFile = "./credentials/youtube_credentials.json"
	}
	if cfg.YouTube.TokenFile == "" {
		cfg.YouTube.TokenFile = "./credentials/youtube_token.json"
	}
	if cfg.YouTube.RedirectURL == "" {
		cfg.YouTube.RedirectURL = fmt.Sprintf("http://localhost:%s/api/v1/credentials/youtube/callback", cfg.App.Port)
	}
	if cfg.YouTube.UploadChunkSize == 0 {
		cfg.YouTube.UploadChunkSize = 1 << 20
	}

	if cfg.Security.OAuthStateTTL == 0 {
		cfg.Security.OAuthStateTTL = 10 * time.Minute
	}

	if cfg.Storage.S3Region == "" {
		cfg.Storage.S3Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}

	if cfg.Scheduler.PublishInterval == 0 {
		cfg.Scheduler.PublishInterval = time.Minute
	}
	if cfg.Scheduler.VideoPollInterval == 0 {
		cfg.Scheduler.VideoPollInterval = 15 * time.Second
	}
	if cfg.Scheduler.AnalyticsInterval == 0 {
		cfg.Scheduler.AnalyticsInterval = 6 * time.Hour
	}
	if cfg.Scheduler.LockTTL == 0 {
		cfg.Scheduler.LockTTL = 30 * time.Minute
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 15 * time.Minute
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQuery == 0 {
		cfg.Telemetry.DBSlowQuery = 200 * time.Millisecond
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 30 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.AI.LLMProvider {
	case "anthropic", "gemini":
	default:
		return fmt.Errorf("ai.llm_provider must be anthropic or gemini, got %q", c.AI.LLMProvider)
	}

	if c.Video.DefaultSeconds < 0 {
		return fmt.Errorf("video.default_seconds cannot be negative")
	}

	if c.Scheduler.JobTimeout > c.Scheduler.LockTTL {
		return fmt.Errorf("scheduler.job_timeout (%s) cannot exceed scheduler.lock_ttl (%s)",
			c.Scheduler.JobTimeout, c.Scheduler.LockTTL)
	}

	if c.Storage.S3Enabled && c.Storage.S3Bucket == "" {
		return fmt.Errorf("storage.s3_bucket is required when storage.s3_enabled is true")
	}

	if c.App.IsProduction() {
		if len(c.Security.TokenEncryptionKey) < minSecretBytes {
			return fmt.Errorf("security.token_encryption_key must be at least %d characters in production", minSecretBytes)
		}
		if len(c.Security.OAuthStateSecret) < minSecretBytes {
			return fmt.Errorf("security.oauth_state_secret must be at least %d characters in production", minSecretBytes)
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Database.Driver == "postgres" && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
