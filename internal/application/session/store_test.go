package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/erp/client/internal/application/api"
	"github.com/erp/client/internal/application/dispatch"
	"github.com/erp/client/internal/application/session"
	"github.com/erp/client/internal/domain/identity"
	"github.com/erp/client/internal/domain/shared"
	"github.com/erp/client/internal/infrastructure/httpclient"
	"github.com/erp/client/internal/infrastructure/mock"
	"github.com/erp/client/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	creds   = identity.Credentials{Username: "zhangsan", Password: "123456"}
	profile = identity.UserInfo{ID: "user-001", Username: "zhangsan", FullName: "张三", Roles: []string{"ROLE_SALES"}}
)

type fakeAuth struct {
	mu        sync.Mutex
	loginEnv  *shared.Envelope
	loginErr  error
	infoEnv   *shared.Envelope
	infoErr   error
	logoutErr error
	logouts   int
	infoCalls int
	// tokens presented to Logout, in call order
	logoutTokens []string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		loginEnv: shared.NewSuccessEnvelope("登录成功", identity.LoginResult{Token: "tok"}),
		infoEnv:  shared.NewSuccessEnvelope("获取用户信息成功", profile),
	}
}

func (f *fakeAuth) Login(context.Context, identity.Credentials) (*shared.Envelope, error) {
	return f.loginEnv, f.loginErr
}

func (f *fakeAuth) GetUserInfo(context.Context) (*shared.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoCalls++
	return f.infoEnv, f.infoErr
}

func (f *fakeAuth) Logout(_ context.Context, token string) (*shared.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	f.logoutTokens = append(f.logoutTokens, token)
	if f.logoutErr != nil {
		return nil, f.logoutErr
	}
	return shared.NewSuccessEnvelope("退出成功", nil), nil
}

type countingObserver struct {
	expired   int
	loggedOut int
}

func (o *countingObserver) OnSessionExpired() { o.expired++ }
func (o *countingObserver) OnLoggedOut()      { o.loggedOut++ }

func assertAbsent(t *testing.T, ls storage.LocalStorage, key string) {
	t.Helper()
	_, err := ls.GetItem(context.Background(), key)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound, "key %q should be absent", key)
}

func TestStore_LoginPersistsTokenAndProfile(t *testing.T) {
	ctx := context.Background()
	ls := storage.NewMemoryStorage()
	s := session.NewStore(ctx, newFakeAuth(), ls)

	require.NoError(t, s.Login(ctx, creds))

	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, "tok", s.Token())
	assert.Equal(t, profile, s.CurrentUser())
	assert.Equal(t, []string{"ROLE_SALES"}, s.UserRoles())

	token, err := ls.GetItem(ctx, session.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	raw, err := ls.GetItem(ctx, session.UserInfoKey)
	require.NoError(t, err)
	var saved identity.UserInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	assert.Equal(t, profile, saved)
}

func TestStore_LoginFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeAuth)
	}{
		{"request error", func(f *fakeAuth) { f.loginErr = &dispatch.APIError{Code: 400, Message: "用户名或密码错误"} }},
		{"rejected envelope", func(f *fakeAuth) { f.loginEnv = shared.NewErrorEnvelope(400, "用户名或密码错误") }},
		{"no token", func(f *fakeAuth) { f.loginEnv = shared.NewSuccessEnvelope("ok", identity.LoginResult{}) }},
		{"no data", func(f *fakeAuth) { f.loginEnv = shared.NewSuccessEnvelope("ok", nil) }},
		{"nil envelope", func(f *fakeAuth) { f.loginEnv = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ls := storage.NewMemoryStorage()
			require.NoError(t, ls.SetItem(ctx, session.TokenKey, "stale"))

			auth := newFakeAuth()
			tt.setup(auth)
			obs := &countingObserver{}
			s := session.NewStore(ctx, auth, ls, session.WithObserver(obs))

			err := s.Login(ctx, creds)
			assert.ErrorIs(t, err, session.ErrLoginFailed)
			assert.False(t, s.IsLoggedIn())
			assert.Zero(t, auth.infoCalls)
			assert.Equal(t, 1, auth.logouts)
			assert.Equal(t, 1, obs.loggedOut)
			assertAbsent(t, ls, session.TokenKey)
		})
	}
}

func TestStore_ProfileFailureLogsOut(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeAuth)
	}{
		{"request error", func(f *fakeAuth) { f.infoErr = errors.New("network down") }},
		{"rejected envelope", func(f *fakeAuth) { f.infoEnv = shared.NewErrorEnvelope(500, "boom") }},
		{"bad payload", func(f *fakeAuth) { f.infoEnv = shared.NewSuccessEnvelope("ok", "not a profile") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ls := storage.NewMemoryStorage()
			auth := newFakeAuth()
			tt.setup(auth)
			s := session.NewStore(ctx, auth, ls)

			require.NoError(t, s.Login(ctx, creds))

			assert.False(t, s.IsLoggedIn())
			assert.True(t, s.CurrentUser().IsZero())
			assertAbsent(t, ls, session.TokenKey)
			assertAbsent(t, ls, session.UserInfoKey)
			assert.Equal(t, 1, auth.logouts)
		})
	}
}

func TestStore_LogoutIgnoresBackendFailure(t *testing.T) {
	ctx := context.Background()
	ls := storage.NewMemoryStorage()
	auth := newFakeAuth()
	obs := &countingObserver{}
	s := session.NewStore(ctx, auth, ls, session.WithObserver(obs))
	require.NoError(t, s.Login(ctx, creds))

	auth.logoutErr = errors.New("server unavailable")
	s.Logout(ctx)

	assert.False(t, s.IsLoggedIn())
	assert.True(t, s.CurrentUser().IsZero())
	assertAbsent(t, ls, session.TokenKey)
	assertAbsent(t, ls, session.UserInfoKey)
	assert.Equal(t, 1, obs.loggedOut)

	// a second logout leaves the same state
	s.Logout(ctx)
	assert.False(t, s.IsLoggedIn())
	assertAbsent(t, ls, session.TokenKey)
	assert.Equal(t, 2, obs.loggedOut)
	assert.Zero(t, ls.Len())

	// the backend sees the dropped token once, then nothing
	assert.Equal(t, []string{"tok", ""}, auth.logoutTokens)
}

func TestStore_Invalidate(t *testing.T) {
	ctx := context.Background()
	ls := storage.NewMemoryStorage()
	auth := newFakeAuth()
	obs := &countingObserver{}
	s := session.NewStore(ctx, auth, ls, session.WithObserver(obs))
	require.NoError(t, s.Login(ctx, creds))

	s.Invalidate(ctx)

	assert.False(t, s.IsLoggedIn())
	assertAbsent(t, ls, session.TokenKey)
	assertAbsent(t, ls, session.UserInfoKey)
	assert.Zero(t, auth.logouts, "invalidate does not call the backend")
	assert.Equal(t, 1, obs.expired)
	assert.Zero(t, obs.loggedOut)
}

func TestStore_FetchUserInfoWithoutToken(t *testing.T) {
	ctx := context.Background()
	auth := newFakeAuth()
	s := session.NewStore(ctx, auth, storage.NewMemoryStorage())

	s.FetchUserInfo(ctx)

	assert.Zero(t, auth.infoCalls)
	assert.Zero(t, auth.logouts)
}

func TestStore_UserInfoSetters(t *testing.T) {
	ctx := context.Background()
	ls := storage.NewMemoryStorage()
	s := session.NewStore(ctx, newFakeAuth(), ls)

	s.SetUserInfo(ctx, profile)
	assert.Equal(t, profile, s.CurrentUser())
	_, err := ls.GetItem(ctx, session.UserInfoKey)
	require.NoError(t, err)

	roles := s.UserRoles()
	roles[0] = "ROLE_ADMIN"
	assert.Equal(t, []string{"ROLE_SALES"}, s.UserRoles(), "roles are copied")

	s.ClearUserInfo(ctx)
	assert.True(t, s.CurrentUser().IsZero())
	assertAbsent(t, ls, session.UserInfoKey)
}

func TestStore_Restore(t *testing.T) {
	ctx := context.Background()
	ls, err := storage.NewBoltStorage(t.TempDir() + "/session.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ls.Close() })

	first := session.NewStore(ctx, newFakeAuth(), ls)
	require.NoError(t, first.Login(ctx, creds))

	second := session.NewStore(ctx, newFakeAuth(), ls)
	assert.Equal(t, "tok", second.Token())
	assert.Equal(t, profile, second.CurrentUser())
}

func TestStore_RestoreDropsBrokenProfile(t *testing.T) {
	ctx := context.Background()
	ls := storage.NewMemoryStorage()
	require.NoError(t, ls.SetItem(ctx, session.TokenKey, "tok"))
	require.NoError(t, ls.SetItem(ctx, session.UserInfoKey, "{not json"))

	s := session.NewStore(ctx, newFakeAuth(), ls)

	assert.Equal(t, "tok", s.Token())
	assert.True(t, s.CurrentUser().IsZero())
	assertAbsent(t, ls, session.UserInfoKey)
}

// The login path goes to a real HTTP server while the profile comes from
// the mock router, as in development mode.
func TestStore_ThroughDispatcher(t *testing.T) {
	var mu sync.Mutex
	var seenAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seenAuth = append(seenAuth, r.URL.Path+" "+r.Header.Get("Authorization"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			w.Write([]byte(`{"code":200,"message":"登录成功","data":{"token":"real-token"}}`))
		default:
			w.Write([]byte(`{"code":200,"message":"退出成功","data":null}`))
		}
	}))
	t.Cleanup(srv.Close)

	client, err := httpclient.New(httpclient.Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	d := dispatch.New(dispatch.Config{UseMock: true}, client, mock.NewRouter(mock.NewServices()))

	ctx := context.Background()
	ls := storage.NewMemoryStorage()
	s := session.NewStore(ctx, api.NewAuthAPI(d), ls)
	d.BindSession(s)
	client.Use(httpclient.BearerAuth(s))

	require.NoError(t, s.Login(ctx, creds))
	assert.Equal(t, "real-token", s.Token())
	assert.Equal(t, mock.DefaultUser.Username, s.CurrentUser().Username)

	s.Logout(ctx)
	assert.False(t, s.IsLoggedIn())

	mu.Lock()
	defer mu.Unlock()
	// logout clears the token before calling the backend
	assert.Equal(t, []string{"/api/auth/login ", "/api/auth/logout "}, seenAuth)
}
