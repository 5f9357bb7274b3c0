package httpclient

import (
	"context"
	"net/http"
)

// TokenSource supplies the current bearer token. An empty token means
// the caller is not logged in.
type TokenSource interface {
	Token() string
}

type tokenKey struct{}

// WithToken pins the bearer token for requests made with ctx. It wins over
// the TokenSource, so a request can still carry a token the session has
// already dropped.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token pinned by WithToken
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok
}

// BearerAuth sets "Authorization: Bearer <token>" whenever the request
// context or src holds a token
func BearerAuth(src TokenSource) RequestInterceptor {
	return func(req *http.Request) error {
		token, ok := TokenFromContext(req.Context())
		if !ok {
			token = src.Token()
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}
