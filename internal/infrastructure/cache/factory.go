package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spa/backend/internal/infrastructure/config"
)

// Backend names accepted by report.cache_backend.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// StoreFactory creates report cache stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	redisConnect          func(config.RedisConfig) (Store, error)
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether a Redis outage degrades to an
// in-memory store. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		redisConnect: func(c config.RedisConfig) (Store, error) {
			return NewRedisStore(c)
		},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore builds the store for backend. The redis backend falls back to
// memory when Redis is unreachable and fallback is allowed.
func (f *StoreFactory) CreateStore(backend string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		f.logger.Info("using in-memory report cache")
		return NewInMemoryStore(), nil
	case BackendRedis:
	default:
		return nil, fmt.Errorf("unknown report cache backend %q", backend)
	}

	store, err := f.redisConnect(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis report cache", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for report cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory report cache. "+
		"Cached reports will not be shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryStore(), nil
}
