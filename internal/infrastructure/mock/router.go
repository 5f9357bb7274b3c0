package mock

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/erp/client/internal/domain/shared"
	"go.uber.org/zap"
)

// Call is one request presented to the mock backend
type Call struct {
	Method   string
	URL      string
	Segments []string // URL split on "/", so Segments[0] is ""
	Params   map[string]string
	Payload  any
}

// Segment returns segment i, or "" when the URL is shorter
func (c Call) Segment(i int) string {
	if i < 0 || i >= len(c.Segments) {
		return ""
	}
	return c.Segments[i]
}

// Predicate decides whether a rule applies to a URL
type Predicate func(url string, segments []string) bool

// Handler answers a matched call
type Handler func(Call) *shared.Envelope

// Rule is one entry in a method's route table. Name identifies the
// entity and action, e.g. "sales_order.submit".
type Rule struct {
	Name   string
	Match  Predicate
	Handle Handler
}

// Exact matches the URL verbatim
func Exact(path string) Predicate {
	return func(url string, _ []string) bool { return url == path }
}

// Prefix matches URLs starting with prefix
func Prefix(prefix string) Predicate {
	return func(url string, _ []string) bool { return strings.HasPrefix(url, prefix) }
}

// Segments matches URLs that split into exactly n segments
func Segments(n int) Predicate {
	return func(_ string, segments []string) bool { return len(segments) == n }
}

// Action matches "<collection>/<id>/<action>": the URL ends in "/action"
// and contains "collection/"
func Action(collection, action string) Predicate {
	return func(url string, _ []string) bool {
		return strings.HasSuffix(url, "/"+action) && strings.Contains(url, collection+"/")
	}
}

// All matches when every predicate matches
func All(preds ...Predicate) Predicate {
	return func(url string, segments []string) bool {
		for _, p := range preds {
			if !p(url, segments) {
				return false
			}
		}
		return true
	}
}

// Router resolves calls against ordered per-method rule tables; the first
// matching rule wins. Unmatched calls get a code 404 envelope.
type Router struct {
	tables map[string][]Rule
	logger *zap.Logger
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithRouterLogger sets the logger for the router
func WithRouterLogger(logger *zap.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// NewRouter builds the router over the standard route table
func NewRouter(svc *Services, opts ...RouterOption) *Router {
	return NewRouterWithRules(Routes(svc), opts...)
}

// NewRouterWithRules builds a router over custom tables keyed by HTTP method
func NewRouterWithRules(tables map[string][]Rule, opts ...RouterOption) *Router {
	r := &Router{tables: tables, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get resolves a GET call
func (r *Router) Get(ctx context.Context, url string, params map[string]string) *shared.Envelope {
	return r.Dispatch(ctx, Call{Method: http.MethodGet, URL: url, Params: params})
}

// Post resolves a POST call
func (r *Router) Post(ctx context.Context, url string, body any) *shared.Envelope {
	return r.Dispatch(ctx, Call{Method: http.MethodPost, URL: url, Payload: body})
}

// Put resolves a PUT call
func (r *Router) Put(ctx context.Context, url string, body any) *shared.Envelope {
	return r.Dispatch(ctx, Call{Method: http.MethodPut, URL: url, Payload: body})
}

// Delete resolves a DELETE call
func (r *Router) Delete(ctx context.Context, url string, params map[string]string) *shared.Envelope {
	return r.Dispatch(ctx, Call{Method: http.MethodDelete, URL: url, Params: params})
}

// Dispatch resolves a call of any method
func (r *Router) Dispatch(_ context.Context, call Call) *shared.Envelope {
	call.Method = strings.ToUpper(call.Method)
	call.Segments = strings.Split(call.URL, "/")

	r.logger.Debug("mock "+call.Method,
		zap.String("url", call.URL),
		zap.Any("params", call.Params),
		zap.Any("payload", call.Payload),
	)

	rule, ok := r.resolve(call)
	if !ok {
		r.logger.Warn("mock route not found",
			zap.String("method", call.Method),
			zap.String("url", call.URL),
		)
		return NotFound(call.Method, call.URL)
	}
	return rule.Handle(call)
}

// Resolve returns the rule that would answer method and url
func (r *Router) Resolve(method, url string) (Rule, bool) {
	return r.resolve(Call{Method: strings.ToUpper(method), URL: url, Segments: strings.Split(url, "/")})
}

func (r *Router) resolve(call Call) (Rule, bool) {
	for _, rule := range r.tables[call.Method] {
		if rule.Match(call.URL, call.Segments) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Rules returns the route table of a method in evaluation order
func (r *Router) Rules(method string) []Rule {
	return append([]Rule(nil), r.tables[strings.ToUpper(method)]...)
}

// NotFound is the envelope answered for unmatched calls
func NotFound(method, url string) *shared.Envelope {
	return shared.NewErrorEnvelope(shared.CodeNotFound, fmt.Sprintf("Mock API不存在: %s %s", method, url))
}
