// Package api holds typed wrappers around the ERP endpoints. Every call is
// issued through a Requester, normally the dispatcher.
package api

import (
	"context"

	"github.com/erp/client/internal/domain/identity"
	"github.com/erp/client/internal/domain/shared"
	"github.com/erp/client/internal/infrastructure/httpclient"
)

// Endpoint paths relative to the API base URL
const (
	LoginPath    = "/auth/login"
	LogoutPath   = "/auth/logout"
	UserInfoPath = "/auth/info"
)

// Requester issues API calls and returns the response envelope
type Requester interface {
	Get(ctx context.Context, url string, params map[string]string) (*shared.Envelope, error)
	Post(ctx context.Context, url string, body any) (*shared.Envelope, error)
	Put(ctx context.Context, url string, body any) (*shared.Envelope, error)
	Delete(ctx context.Context, url string, params map[string]string) (*shared.Envelope, error)
}

// AuthAPI wraps the authentication endpoints
type AuthAPI struct {
	requester Requester
}

// NewAuthAPI creates an AuthAPI over r
func NewAuthAPI(r Requester) *AuthAPI {
	return &AuthAPI{requester: r}
}

// Login posts the credentials. The returned envelope carries a LoginResult.
func (a *AuthAPI) Login(ctx context.Context, creds identity.Credentials) (*shared.Envelope, error) {
	return a.requester.Post(ctx, LoginPath, creds)
}

// GetUserInfo fetches the profile of the current token's user
func (a *AuthAPI) GetUserInfo(ctx context.Context) (*shared.Envelope, error) {
	return a.requester.Get(ctx, UserInfoPath, nil)
}

// Logout ends the session of token on the backend. The token is sent even
// when the local session has already been cleared.
func (a *AuthAPI) Logout(ctx context.Context, token string) (*shared.Envelope, error) {
	if token != "" {
		ctx = httpclient.WithToken(ctx, token)
	}
	return a.requester.Post(ctx, LogoutPath, nil)
}
