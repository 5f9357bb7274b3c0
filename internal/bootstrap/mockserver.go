package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/client/internal/infrastructure/auth"
	"github.com/erp/client/internal/infrastructure/config"
	"github.com/erp/client/internal/infrastructure/mock"
	"github.com/erp/client/internal/infrastructure/telemetry"
	"github.com/erp/client/internal/interfaces/http/handler"
	"github.com/erp/client/internal/interfaces/http/middleware"
	"github.com/erp/client/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MockServer is the mock backend served over HTTP
type MockServer struct {
	Engine   *gin.Engine
	Services *mock.Services
	Tokens   *auth.TokenService
	Metrics  *telemetry.ServerMetrics
	closers  []func() error
}

// NewMockServer wires the gin engine. Token revocations are shared over
// Redis when the storage driver is redis, otherwise kept in memory.
func NewMockServer(cfg *config.Config, log *zap.Logger) (*MockServer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	services := mock.NewServices()
	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.MockServer.JWTSecret,
		TTL:    cfg.MockServer.TokenTTL,
		Issuer: cfg.MockServer.Issuer,
	})

	s := &MockServer{Services: services, Tokens: tokens}

	blacklist, err := s.newBlacklist(cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		s.Metrics = telemetry.NewServerMetrics(cfg.Metrics.Namespace)
	}

	s.Engine = router.New(router.Deps{
		Auth: handler.NewAuthHandler(tokens, blacklist, services.Users, handler.DemoAccount{
			Username: cfg.MockServer.DemoUsername,
			Password: cfg.MockServer.DemoPassword,
		}, log),
		Mock: handler.NewMockHandler(mock.NewRouter(services, mock.WithRouterLogger(log.Named("mock"))), router.APIPrefix, log),
		Bearer: middleware.BearerAuth(middleware.AuthConfig{
			Tokens:    tokens,
			Blacklist: blacklist,
			Logger:    log,
		}),
		Metrics: s.Metrics,
		Logger:  log,
	})
	return s, nil
}

func (s *MockServer) newBlacklist(cfg *config.Config, log *zap.Logger) (auth.Blacklist, error) {
	if cfg.Storage.Driver != "redis" {
		return auth.NewMemoryBlacklist(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Storage.Redis.Addr(),
		Password:     cfg.Storage.Redis.Password,
		DB:           cfg.Storage.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !cfg.Storage.AllowMemoryFallback {
			return nil, fmt.Errorf("failed to connect to redis for token blacklist: %w", err)
		}
		log.Warn("redis unavailable, keeping revoked tokens in memory", zap.Error(err))
		return auth.NewMemoryBlacklist(), nil
	}

	s.closers = append(s.closers, client.Close)
	return auth.NewRedisBlacklist(client, cfg.Storage.KeyPrefix+"revoked:"), nil
}

// Close releases external connections
func (s *MockServer) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
