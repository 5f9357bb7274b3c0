// Package bootstrap wires the client and the mock server from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/erp/client/internal/application/api"
	"github.com/erp/client/internal/application/dispatch"
	"github.com/erp/client/internal/application/session"
	"github.com/erp/client/internal/infrastructure/config"
	"github.com/erp/client/internal/infrastructure/httpclient"
	"github.com/erp/client/internal/infrastructure/logger"
	"github.com/erp/client/internal/infrastructure/mock"
	"github.com/erp/client/internal/infrastructure/storage"
	"github.com/erp/client/internal/infrastructure/telemetry"
	"github.com/erp/client/internal/interfaces/cli"
	"go.uber.org/zap"
)

// Hooks are the user facing collaborators of the client. Nil fields get
// terminal defaults writing to Output.
type Hooks struct {
	Notifier  dispatch.Notifier
	Prompter  dispatch.Prompter
	Navigator dispatch.Navigator
	Observer  session.Observer
	Output    io.Writer
}

// Client is a fully wired ERP client
type Client struct {
	Config     *config.Config
	Logger     *zap.Logger
	Storage    storage.LocalStorage
	HTTP       *httpclient.Client
	Mock       *mock.Router
	Services   *mock.Services
	Dispatcher *dispatch.Dispatcher
	Auth       *api.AuthAPI
	Session    *session.Store
	Metrics    *telemetry.DispatchMetrics
}

// NewLogger builds the logger described by cfg.Log
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// NewClient builds every layer and binds the session store into the
// dispatcher and the HTTP client
func NewClient(ctx context.Context, cfg *config.Config, log *zap.Logger, hooks Hooks) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if hooks.Output == nil {
		hooks.Output = os.Stderr
	}
	if hooks.Notifier == nil {
		hooks.Notifier = cli.NewNotifier(hooks.Output, log)
	}
	if hooks.Prompter == nil {
		hooks.Prompter = cli.StaticPrompter(false)
	}
	if hooks.Navigator == nil {
		hooks.Navigator = cli.NewNavigator(hooks.Output, log)
	}
	if hooks.Observer == nil {
		hooks.Observer = cli.NewSessionObserver(hooks.Navigator, log)
	}

	ls, err := storage.NewFactory(cfg.Storage, storage.WithLogger(log)).Create()
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	httpClient, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})
	if err != nil {
		_ = ls.Close()
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	var metrics *telemetry.DispatchMetrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewDispatchMetrics(cfg.Metrics.Namespace)
	}

	services := mock.NewServices()
	router := mock.NewRouter(services, mock.WithRouterLogger(log.Named("mock")))

	d := dispatch.New(dispatch.Config{
		UseMock: cfg.API.UseMock,
		Matcher: dispatch.NewPrefixMatcher(cfg.API.RealPaths...),
	}, httpClient, router,
		dispatch.WithNotifier(hooks.Notifier),
		dispatch.WithPrompter(hooks.Prompter),
		dispatch.WithNavigator(hooks.Navigator),
		dispatch.WithMetrics(metrics),
		dispatch.WithLogger(log.Named("dispatch")),
	)

	authAPI := api.NewAuthAPI(d)
	store := session.NewStore(ctx, authAPI, ls,
		session.WithObserver(hooks.Observer),
		session.WithLogger(log.Named("session")),
	)
	d.BindSession(store)
	httpClient.Use(httpclient.BearerAuth(store))

	log.Debug("client ready",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Bool("use_mock", cfg.API.UseMock),
		zap.String("storage", cfg.Storage.Driver),
	)

	return &Client{
		Config:     cfg,
		Logger:     log,
		Storage:    ls,
		HTTP:       httpClient,
		Mock:       router,
		Services:   services,
		Dispatcher: d,
		Auth:       authAPI,
		Session:    store,
		Metrics:    metrics,
	}, nil
}

// Resource returns the REST collection registered under name
func (c *Client) Resource(name string) (*api.Resource, error) {
	path, ok := api.Collections[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", name)
	}
	return api.NewResource(c.Dispatcher, path), nil
}

// Close releases the session storage
func (c *Client) Close() error {
	return c.Storage.Close()
}
