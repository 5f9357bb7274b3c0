package storage

import (
	"fmt"

	"github.com/erp/client/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates the LocalStorage selected by configuration
type Factory struct {
	cfg                   config.StorageConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable backend degrades to memory
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory. Fallback defaults to cfg.AllowMemoryFallback.
func NewFactory(cfg config.StorageConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: cfg.AllowMemoryFallback,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create opens the configured storage backend
func (f *Factory) Create() (LocalStorage, error) {
	var (
		store LocalStorage
		err   error
	)

	switch f.cfg.Driver {
	case "", "memory":
		f.logger.Info("using in-memory session storage")
		return NewMemoryStorage(), nil
	case "bolt":
		store, err = NewBoltStorage(f.cfg.Path)
	case "redis":
		store, err = NewRedisStorage(RedisConfig{
			Host:     f.cfg.Redis.Host,
			Port:     f.cfg.Redis.Port,
			Password: f.cfg.Redis.Password,
			DB:       f.cfg.Redis.DB,
		}, f.cfg.KeyPrefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", f.cfg.Driver)
	}

	if err == nil {
		f.logger.Info("using session storage", zap.String("driver", f.cfg.Driver))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("%s storage unavailable: %w", f.cfg.Driver, err)
	}

	f.logger.Warn("session storage unavailable, falling back to memory. "+
		"The session will not survive process exit.",
		zap.String("driver", f.cfg.Driver),
		zap.Error(err),
	)
	return NewMemoryStorage(), nil
}
