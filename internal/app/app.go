// Package app wires configuration, infrastructure and application services
// into a runnable backend. The HTTP server and the operator CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	ideaapp "github.com/contentgen/backend/internal/application/idea"
	newsapp "github.com/contentgen/backend/internal/application/news"
	publishingapp "github.com/contentgen/backend/internal/application/publishing"
	videoapp "github.com/contentgen/backend/internal/application/video"
	"github.com/contentgen/backend/internal/domain/news"
	"github.com/contentgen/backend/internal/infrastructure/cache"
	"github.com/contentgen/backend/internal/infrastructure/config"
	"github.com/contentgen/backend/internal/infrastructure/llm"
	"github.com/contentgen/backend/internal/infrastructure/logger"
	"github.com/contentgen/backend/internal/infrastructure/media"
	"github.com/contentgen/backend/internal/infrastructure/newsfeed"
	"github.com/contentgen/backend/internal/infrastructure/persistence"
	"github.com/contentgen/backend/internal/infrastructure/security"
	"github.com/contentgen/backend/internal/infrastructure/storage"
	"github.com/contentgen/backend/internal/infrastructure/telemetry"
	"github.com/contentgen/backend/internal/infrastructure/videogen"
	"github.com/contentgen/backend/internal/infrastructure/youtube"
)

const meterName = "github.com/contentgen/backend"

// App holds every long-lived component of the backend
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *persistence.Database

	News        *newsapp.Service
	Ideas       *ideaapp.Service
	Videos      *videoapp.Service
	Metadata    *publishingapp.MetadataService
	Publish     *publishingapp.PublishService
	Credentials *publishingapp.CredentialService
	YouTube     *youtube.Client

	tracer  *telemetry.TracerProvider
	meter   *telemetry.MeterProvider
	logs    *telemetry.LogExporter
	closers []func() error
}

// New builds the application. On error every component created so far is
// released.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *App, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	if err = a.initTelemetry(ctx); err != nil {
		return nil, err
	}
	if err = a.initDatabase(); err != nil {
		return nil, err
	}

	metrics, err := telemetry.NewContentMetrics(a.meter.Meter(meterName))
	if err != nil {
		return nil, fmt.Errorf("failed to create content metrics: %w", err)
	}

	locker, closeLocker, err := cache.NewLockerFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).Create()
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeLocker)

	cipher, err := security.NewTokenCipher(cfg.Security.TokenEncryptionKey)
	if err != nil {
		return nil, err
	}
	if !cipher.Enabled() && cfg.App.IsProduction() {
		log.Warn("Token encryption key not set; OAuth tokens are stored in plain text")
	}

	articles := persistence.NewGormArticleRepository(a.DB.DB)
	ideas := persistence.NewGormIdeaRepository(a.DB.DB)
	generations := persistence.NewGormGenerationRepository(a.DB.DB)
	published := persistence.NewGormPublishedVideoRepository(a.DB.DB)
	credentials := persistence.NewGormCredentialRepository(a.DB.DB, cipher)

	completer, err := llm.New(ctx, cfg.AI, log)
	if err != nil {
		return nil, err
	}

	a.News = newsapp.NewService(articles, newsSources(cfg.News, log), metrics, log)
	a.Ideas = ideaapp.NewService(ideas, articles, completer, metrics, log)

	files, err := storage.NewLocalStore(cfg.Video.StoragePath)
	if err != nil {
		return nil, err
	}
	objects, err := objectStore(ctx, &cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	a.Videos = videoapp.NewService(
		videoRouter(cfg, metrics, log),
		generations,
		files,
		cfg.Video,
		log,
		videoapp.WithLocker(locker, cfg.Scheduler.LockTTL),
		videoapp.WithObjectStore(objects),
		videoapp.WithFormatter(media.NewFormatter(cfg.Video.StoragePath, log)),
	)

	oauthCfg, err := youtube.OAuthConfig(cfg.YouTube)
	if err != nil && !errors.Is(err, youtube.ErrNotConfigured) {
		return nil, err
	}
	if oauthCfg == nil {
		log.Info("YouTube OAuth client not configured; publishing needs a stored token")
	}
	var tokenFile youtube.TokenStore
	tokens := youtube.TokenStore(youtube.NewCredentialTokenStore(credentials))
	if cfg.YouTube.TokenFile != "" {
		tokenFile = youtube.NewFileTokenStore(cfg.YouTube.TokenFile)
		tokens = youtube.NewChainTokenStore(tokens, tokenFile)
	}
	a.YouTube = youtube.NewClient(oauthCfg, tokens, log, youtube.WithChunkSize(cfg.YouTube.UploadChunkSize))

	states, err := security.NewStateSigner(cfg.Security.OAuthStateSecret, cfg.Security.OAuthStateTTL)
	if err != nil {
		return nil, err
	}

	a.Metadata = publishingapp.NewMetadataService(completer, ideas, articles, log)
	a.Publish = publishingapp.NewPublishService(published, a.YouTube, files, log,
		publishingapp.WithScheduling(cfg.Scheduler.EnableScheduledPublishing),
		publishingapp.WithPublishLocker(locker, cfg.Scheduler.LockTTL),
		publishingapp.WithPublishMetrics(metrics),
	)
	a.Credentials = publishingapp.NewCredentialService(credentials, a.YouTube, states, tokenFile, log)

	return a, nil
}

func (a *App) initTelemetry(ctx context.Context) error {
	tcfg := telemetry.ConfigFrom(a.Config.Telemetry)
	if tcfg.ServiceName == "" {
		tcfg.ServiceName = a.Config.App.Name
	}

	tp, err := telemetry.NewTracerProvider(ctx, tcfg, a.Logger)
	if err != nil {
		return err
	}
	a.tracer = tp

	mp, err := telemetry.NewMeterProvider(ctx, tcfg, a.Logger)
	if err != nil {
		return err
	}
	a.meter = mp

	le, err := telemetry.NewLogExporter(ctx, tcfg, a.Logger)
	if err != nil {
		return err
	}
	a.logs = le
	a.Logger = le.Attach(a.Logger)
	return nil
}

func (a *App) initDatabase() error {
	gormLog := logger.NewGormLogger(a.Logger, a.Config.Log.Level, a.Config.Telemetry.DBSlowQuery)
	db, err := persistence.NewDatabase(&a.Config.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return err
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)

	if a.Config.Telemetry.Enabled && a.Config.Telemetry.DBTraceEnabled {
		tc := telemetry.DefaultDBTracingConfig(db.Driver)
		tc.SlowQuery = a.Config.Telemetry.DBSlowQuery
		tc.IncludeVariables = a.Config.App.Env == "development"
		plugin, err := telemetry.NewDBTracingPlugin(tc, a.Logger, a.meter.Meter(meterName))
		if err != nil {
			return err
		}
		if err := plugin.Register(db.DB); err != nil {
			return err
		}
	}

	// postgres schemas come from cmd/migrate
	if db.Driver != "postgres" {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
	}
	a.Logger.Info("Database connected", zap.String("driver", db.Driver))
	return nil
}

func newsSources(cfg config.NewsConfig, log *zap.Logger) map[string]news.Source {
	feed := func(key string) newsfeed.Config {
		return newsfeed.Config{APIKey: key, Timeout: cfg.RequestTimeout}
	}
	return map[string]news.Source{
		newsfeed.SourceNewsAPI:  newsfeed.NewNewsAPI(feed(cfg.NewsAPIKey), log),
		newsfeed.SourceGNews:    newsfeed.NewGNews(feed(cfg.GNewsAPIKey), log),
		newsfeed.SourceGuardian: newsfeed.NewGuardian(feed(cfg.GuardianAPIKey), log),
	}
}

func videoRouter(cfg *config.Config, metrics *telemetry.ContentMetrics, log *zap.Logger) *videoapp.ModelRouter {
	sora := videogen.NewSoraClient(videogen.Config{
		APIKey:  cfg.AI.OpenAIAPIKey,
		BaseURL: cfg.AI.OpenAIBaseURL,
		Timeout: cfg.AI.RequestTimeout,
	}, log)
	kie := videogen.Config{
		APIKey:  cfg.AI.KieAPIKey,
		BaseURL: cfg.AI.KieBaseURL,
		Timeout: cfg.AI.RequestTimeout,
	}
	return videoapp.NewModelRouter(
		sora,
		videogen.NewKieVeoClient(kie, log),
		videogen.NewKieWanClient(kie, log),
		log,
		videoapp.WithSoraDefaults(cfg.Video.DefaultSeconds, cfg.Video.DefaultSize),
		videoapp.WithRouterMetrics(metrics),
	)
}

func objectStore(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (videoapp.ObjectStore, error) {
	if !cfg.S3Enabled {
		return storage.DisabledObjectStorage{}, nil
	}
	s3, err := storage.NewS3ObjectStorage(cfg,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.PresignExpiration),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage: %w", err)
	}
	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s3.EnsureBucket(ensureCtx); err != nil {
		log.Warn("Object storage bucket check failed", zap.String("bucket", s3.Bucket()), zap.Error(err))
	}
	return s3, nil
}

// Meter returns the application meter used for HTTP instruments
func (a *App) Meter() *telemetry.MeterProvider {
	return a.meter
}

// Close releases every component in reverse creation order and flushes
// telemetry
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if a.meter != nil {
		if err := a.meter.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.logs != nil {
		if err := a.logs.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
