// Package dispatch is the single entry point for ERP API calls. Each call
// goes either to the real HTTP backend or to the in-memory mock backend,
// decided by an allow-list of real paths and the mock flag.
package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/erp/client/internal/domain/shared"
	"github.com/erp/client/internal/infrastructure/httpclient"
	"github.com/erp/client/internal/infrastructure/logger"
	"github.com/erp/client/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RealBackend is the HTTP transport to the real backend
type RealBackend interface {
	Get(ctx context.Context, path string, query map[string]string) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body any) (*httpclient.Response, error)
	Put(ctx context.Context, path string, body any) (*httpclient.Response, error)
	Delete(ctx context.Context, path string, query map[string]string) (*httpclient.Response, error)
}

// MockBackend answers calls from memory. It never fails: unknown routes
// come back as code 404 envelopes.
type MockBackend interface {
	Get(ctx context.Context, url string, params map[string]string) *shared.Envelope
	Post(ctx context.Context, url string, body any) *shared.Envelope
	Put(ctx context.Context, url string, body any) *shared.Envelope
	Delete(ctx context.Context, url string, params map[string]string) *shared.Envelope
}

// Config selects the backend
type Config struct {
	// UseMock sends every path the matcher does not claim to the mock backend
	UseMock bool
	// Matcher lists paths that always reach the real backend.
	// Nil means DefaultRealPaths.
	Matcher RouteMatcher
}

// Dispatcher routes API calls. Only real backend responses go through the
// notification, re-authentication and redirect handling; mock envelopes
// are returned untouched, including 401s.
type Dispatcher struct {
	useMock   bool
	matcher   RouteMatcher
	real      RealBackend
	mock      MockBackend
	notifier  Notifier
	prompter  Prompter
	navigator Navigator
	metrics   *telemetry.DispatchMetrics
	logger    *zap.Logger

	mu      sync.RWMutex
	session SessionCache
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithNotifier sets where error messages are shown
func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) { d.notifier = n }
}

// WithPrompter sets who answers the re-login prompt
func WithPrompter(p Prompter) Option {
	return func(d *Dispatcher) { d.prompter = p }
}

// WithNavigator sets the screen navigator
func WithNavigator(n Navigator) Option {
	return func(d *Dispatcher) { d.navigator = n }
}

// WithSession sets the session cache at construction time
func WithSession(s SessionCache) Option {
	return func(d *Dispatcher) { d.session = s }
}

// WithMetrics records call counts and latency
func WithMetrics(m *telemetry.DispatchMetrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithLogger sets the logger for the dispatcher
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New creates a dispatcher
func New(cfg Config, real RealBackend, mock MockBackend, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		useMock:   cfg.UseMock,
		matcher:   cfg.Matcher,
		real:      real,
		mock:      mock,
		notifier:  nopNotifier{},
		prompter:  nopPrompter{},
		navigator: nopNavigator{},
		logger:    zap.NewNop(),
	}
	if d.matcher == nil {
		d.matcher = NewPrefixMatcher(DefaultRealPaths...)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// BindSession attaches the session after construction. The session store
// itself talks through the dispatcher, so it usually exists only later.
func (d *Dispatcher) BindSession(s SessionCache) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session = s
}

func (d *Dispatcher) sessionCache() SessionCache {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.session
}

// UseRealBackend reports whether url goes to the real backend
func (d *Dispatcher) UseRealBackend(url string) bool {
	return d.matcher.Matches(url) || !d.useMock
}

// Get issues a GET; params become the query string on the real backend
func (d *Dispatcher) Get(ctx context.Context, url string, params map[string]string) (*shared.Envelope, error) {
	return d.call(ctx, http.MethodGet, url, func(ctx context.Context) (*httpclient.Response, error) {
		return d.real.Get(ctx, url, params)
	}, func(ctx context.Context) *shared.Envelope {
		return d.mock.Get(ctx, url, params)
	})
}

// Post issues a POST with a JSON body
func (d *Dispatcher) Post(ctx context.Context, url string, body any) (*shared.Envelope, error) {
	return d.call(ctx, http.MethodPost, url, func(ctx context.Context) (*httpclient.Response, error) {
		return d.real.Post(ctx, url, body)
	}, func(ctx context.Context) *shared.Envelope {
		return d.mock.Post(ctx, url, body)
	})
}

// Put issues a PUT with a JSON body
func (d *Dispatcher) Put(ctx context.Context, url string, body any) (*shared.Envelope, error) {
	return d.call(ctx, http.MethodPut, url, func(ctx context.Context) (*httpclient.Response, error) {
		return d.real.Put(ctx, url, body)
	}, func(ctx context.Context) *shared.Envelope {
		return d.mock.Put(ctx, url, body)
	})
}

// Delete issues a DELETE; params become the query string on the real backend
func (d *Dispatcher) Delete(ctx context.Context, url string, params map[string]string) (*shared.Envelope, error) {
	return d.call(ctx, http.MethodDelete, url, func(ctx context.Context) (*httpclient.Response, error) {
		return d.real.Delete(ctx, url, params)
	}, func(ctx context.Context) *shared.Envelope {
		return d.mock.Delete(ctx, url, params)
	})
}

func (d *Dispatcher) call(
	ctx context.Context,
	method, url string,
	real func(context.Context) (*httpclient.Response, error),
	mocked func(context.Context) *shared.Envelope,
) (*shared.Envelope, error) {
	backend := telemetry.BackendMock
	if d.UseRealBackend(url) {
		backend = telemetry.BackendReal
	}

	ctx, span := telemetry.StartSpan(ctx, "dispatch", method,
		attribute.String("http.url", url),
		attribute.String("erp.backend", backend),
	)
	defer span.End()
	start := time.Now()

	if backend == telemetry.BackendMock {
		env := mocked(ctx)
		outcome := telemetry.OutcomeOK
		if env.Code == shared.CodeNotFound {
			outcome = telemetry.OutcomeNotFound
		}
		span.SetAttributes(attribute.Int("erp.code", env.Code))
		d.metrics.Observe(backend, method, outcome, time.Since(start))
		return env, nil
	}

	env, err := d.handleReal(ctx, method, url, real)
	outcome := telemetry.OutcomeOK
	switch err.(type) {
	case nil:
		telemetry.SetOK(span)
	case *APIError:
		outcome = telemetry.OutcomeAPIError
		telemetry.RecordError(span, err)
	default:
		outcome = telemetry.OutcomeTransportError
		telemetry.RecordError(span, err)
	}
	d.metrics.Observe(backend, method, outcome, time.Since(start))
	return env, err
}

func (d *Dispatcher) handleReal(
	ctx context.Context,
	method, url string,
	real func(context.Context) (*httpclient.Response, error),
) (*shared.Envelope, error) {
	log := logger.Ctx(ctx, d.logger).With(zap.String("method", method), zap.String("url", url))

	resp, err := real(ctx)
	if err != nil {
		log.Error("request failed", zap.Error(err))
		d.notifier.NotifyError(ctx, err.Error())
		return nil, &TransportError{Message: err.Error(), Err: err}
	}

	if !resp.IsSuccess() {
		return nil, d.handleStatus(ctx, log, resp)
	}

	env, err := httpclient.DecodeEnvelope(resp.Body)
	if err != nil {
		// a 2xx body without an envelope is an application failure
		log.Warn("response is not an envelope", zap.Error(err))
		env = shared.NewErrorEnvelope(0, "")
	}

	if env.IsSuccess() {
		return env, nil
	}

	msg := env.MessageOr(DefaultErrorMessage)
	log.Warn("api error", zap.Int("code", env.Code), zap.String("message", msg))
	d.notifier.NotifyError(ctx, msg)

	if env.Code == shared.CodeUnauthorized {
		d.promptReauth(ctx, log)
	}
	return nil, &APIError{Code: env.Code, Message: msg}
}

func (d *Dispatcher) handleStatus(ctx context.Context, log *zap.Logger, resp *httpclient.Response) error {
	msg := httpclient.ErrorMessage(resp.Body)
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
	}
	log.Error("request failed", zap.Int("status", resp.StatusCode), zap.String("message", msg))
	d.notifier.NotifyError(ctx, msg)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		d.expireSession(ctx)
	case http.StatusForbidden:
		d.navigator.Navigate(ctx, ForbiddenPath)
	}
	return &TransportError{StatusCode: resp.StatusCode, Message: msg}
}

// promptReauth blocks until the user answers the re-login prompt
func (d *Dispatcher) promptReauth(ctx context.Context, log *zap.Logger) {
	ok, err := d.prompter.Confirm(ctx, ReauthPrompt)
	if err != nil {
		log.Debug("re-login prompt dismissed", zap.Error(err))
		return
	}
	if ok {
		d.expireSession(ctx)
	}
}

func (d *Dispatcher) expireSession(ctx context.Context) {
	if s := d.sessionCache(); s != nil {
		s.Invalidate(ctx)
	}
	d.navigator.Navigate(ctx, LoginPath)
}
