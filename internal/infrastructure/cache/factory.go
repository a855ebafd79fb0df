package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/infrastructure/config"
)

// LockerFactory creates a Locker based on configuration
type LockerFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// LockerFactoryOption configures a LockerFactory
type LockerFactoryOption func(*LockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// an in-process locker. Default is true.
func WithInMemoryFallback(allow bool) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewLockerFactory creates a new factory
func NewLockerFactory(cfg config.RedisConfig, opts ...LockerFactoryOption) *LockerFactory {
	f := &LockerFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis locker when Redis is enabled and reachable, and an
// in-memory locker otherwise. The returned close func releases the client.
func (f *LockerFactory) Create() (Locker, func() error, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory job locks")
		return NewInMemoryLocker(), func() error { return nil }, nil
	}

	locker, err := NewRedisLocker(f.redisConfig.Addr(), f.redisConfig.Password, f.redisConfig.DB)
	if err == nil {
		f.logger.Info("Using Redis job locks", zap.String("addr", f.redisConfig.Addr()))
		return locker, locker.Close, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("redis required for job locks but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory job locks. "+
		"Scheduled jobs may run on several instances at once.",
		zap.Error(err),
	)
	return NewInMemoryLocker(), func() error { return nil }, nil
}
