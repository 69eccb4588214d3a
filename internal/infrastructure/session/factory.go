package session

import (
	"fmt"
	"io"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backend names accepted by session.backend
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// CartStoreFactory creates the cart store selected by configuration
type CartStoreFactory struct {
	sessionConfig         config.SessionConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CartStoreFactoryOption is a functional option for configuring the factory
type CartStoreFactoryOption func(*CartStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory store. Default is true.
func WithInMemoryFallback(allow bool) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCartStoreFactory creates a new factory
func NewCartStoreFactory(sessionCfg config.SessionConfig, redisCfg config.RedisConfig, opts ...CartStoreFactoryOption) *CartStoreFactory {
	f := &CartStoreFactory{
		sessionConfig:         sessionCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CartStore is a cart.Store that owns resources released on shutdown
type CartStore interface {
	cart.Store
	io.Closer
}

type redisCartStoreCloser struct {
	*RedisCartStore
	closer io.Closer
}

func (s redisCartStoreCloser) Close() error {
	return s.closer.Close()
}

// CreateStore returns the configured store. With the redis backend it
// falls back to memory when Redis is unreachable and fallback is allowed.
func (f *CartStoreFactory) CreateStore() (CartStore, error) {
	if f.sessionConfig.Backend == BackendMemory {
		f.logger.Info("using in-memory cart store")
		return NewMemoryCartStore(f.sessionConfig.TTL), nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis cart store", zap.String("addr", f.redisConfig.Addr()))
		return redisCartStoreCloser{
			RedisCartStore: NewRedisCartStore(client, f.sessionConfig.TTL),
			closer:         client,
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for cart sessions but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cart store. "+
		"Carts will not be shared across instances.",
		zap.Error(err),
	)
	return NewMemoryCartStore(f.sessionConfig.TTL), nil
}
