// Package session keeps the authentication token and user profile of the
// current user, in memory and in local storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/erp/client/internal/domain/identity"
	"github.com/erp/client/internal/domain/shared"
	"github.com/erp/client/internal/infrastructure/logger"
	"github.com/erp/client/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// Storage keys
const (
	TokenKey    = "token"
	UserInfoKey = "userInfo"
)

// ErrLoginFailed is returned when the backend refuses the credentials or
// answers without a token
var ErrLoginFailed = errors.New("login failed")

// AuthAPI is the backend the store authenticates against
type AuthAPI interface {
	Login(ctx context.Context, creds identity.Credentials) (*shared.Envelope, error)
	GetUserInfo(ctx context.Context) (*shared.Envelope, error)
	Logout(ctx context.Context, token string) (*shared.Envelope, error)
}

// Observer is told when the session ends. OnSessionExpired follows a
// rejected token, OnLoggedOut an explicit logout.
type Observer interface {
	OnSessionExpired()
	OnLoggedOut()
}

type nopObserver struct{}

func (nopObserver) OnSessionExpired() {}
func (nopObserver) OnLoggedOut()      {}

// Store holds the session. Memory and storage are updated together under
// one lock; backend calls run outside it.
type Store struct {
	api      AuthAPI
	storage  storage.LocalStorage
	observer Observer
	logger   *zap.Logger

	mu       sync.RWMutex
	token    string
	userInfo identity.UserInfo
}

// Option configures a Store
type Option func(*Store)

// WithObserver sets the session observer
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store and restores any session saved in ls
func NewStore(ctx context.Context, api AuthAPI, ls storage.LocalStorage, opts ...Option) *Store {
	s := &Store{
		api:      api,
		storage:  ls,
		observer: nopObserver{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restore(ctx)
	return s
}

// restore loads token and profile from storage. A broken profile is dropped.
func (s *Store) restore(ctx context.Context) {
	log := logger.Ctx(ctx, s.logger)

	token, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		log.Warn("failed to read saved token", zap.Error(err))
	}

	var info identity.UserInfo
	raw, err := s.storage.GetItem(ctx, UserInfoKey)
	switch {
	case err == nil:
		if err := json.Unmarshal([]byte(raw), &info); err != nil {
			log.Warn("discarding unreadable user profile", zap.Error(err))
			info = identity.UserInfo{}
			s.remove(ctx, UserInfoKey)
		}
	case !errors.Is(err, storage.ErrKeyNotFound):
		log.Warn("failed to read saved user profile", zap.Error(err))
	}

	s.mu.Lock()
	s.token = token
	s.userInfo = info
	s.mu.Unlock()

	if token != "" {
		log.Debug("session restored", zap.String("username", info.Username))
	}
}

// Login authenticates and then loads the profile. Any login failure leaves
// the store logged out. A failed profile fetch does not fail Login; check
// IsLoggedIn afterwards.
func (s *Store) Login(ctx context.Context, creds identity.Credentials) error {
	log := logger.Ctx(ctx, s.logger).With(zap.String("username", creds.Username))
	log.Info("login attempt")

	env, err := s.api.Login(ctx, creds)
	if err != nil {
		log.Warn("login request failed", zap.Error(err))
		s.Logout(ctx)
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	var result identity.LoginResult
	if env == nil || !env.IsSuccess() {
		msg := "empty response"
		if env != nil {
			msg = env.MessageOr("登录失败")
		}
		log.Warn("login rejected", zap.String("message", msg))
		s.Logout(ctx)
		return fmt.Errorf("%w: %s", ErrLoginFailed, msg)
	}
	if err := env.DecodeData(&result); err != nil || result.Token == "" {
		log.Warn("login response carries no token", zap.Error(err))
		s.Logout(ctx)
		return fmt.Errorf("%w: no token in response", ErrLoginFailed)
	}

	s.mu.Lock()
	s.token = result.Token
	s.persist(ctx, TokenKey, result.Token)
	s.mu.Unlock()
	log.Info("logged in")

	s.FetchUserInfo(ctx)
	return nil
}

// FetchUserInfo loads the profile of the logged in user. Without a token
// it does nothing. A failure logs the user out.
func (s *Store) FetchUserInfo(ctx context.Context) {
	if s.Token() == "" {
		return
	}
	log := logger.Ctx(ctx, s.logger)

	env, err := s.api.GetUserInfo(ctx)
	if err != nil {
		log.Warn("failed to fetch user profile", zap.Error(err))
		s.Logout(ctx)
		return
	}
	if env == nil || !env.IsSuccess() {
		log.Warn("user profile rejected", zap.String("message", messageOf(env)))
		s.Logout(ctx)
		return
	}

	var info identity.UserInfo
	if err := env.DecodeData(&info); err != nil {
		log.Warn("unreadable user profile", zap.Error(err))
		s.Logout(ctx)
		return
	}
	s.SetUserInfo(ctx, info)
}

// Logout clears the session locally first and then tells the backend,
// presenting the dropped token so it can be revoked. The backend call is
// best effort.
func (s *Store) Logout(ctx context.Context) {
	token := s.Token()
	s.clear(ctx)

	if _, err := s.api.Logout(ctx, token); err != nil {
		logger.Ctx(ctx, s.logger).Warn("backend logout failed", zap.Error(err))
	}
	s.observer.OnLoggedOut()
}

// Invalidate drops the session without contacting the backend. It is
// called when the backend has already rejected the token.
func (s *Store) Invalidate(ctx context.Context) {
	s.clear(ctx)
	logger.Ctx(ctx, s.logger).Info("session expired")
	s.observer.OnSessionExpired()
}

// SetUserInfo stores the profile in memory and storage
func (s *Store) SetUserInfo(ctx context.Context, info identity.UserInfo) {
	raw, err := json.Marshal(info)
	if err != nil {
		logger.Ctx(ctx, s.logger).Error("failed to encode user profile", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.userInfo = info
	s.persist(ctx, UserInfoKey, string(raw))
}

// ClearUserInfo forgets the profile but keeps the token
func (s *Store) ClearUserInfo(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userInfo = identity.UserInfo{}
	s.remove(ctx, UserInfoKey)
}

// Token returns the current token, empty when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsLoggedIn reports whether a token is held
func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

// CurrentUser returns a copy of the profile
func (s *Store) CurrentUser() identity.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info := s.userInfo
	info.Roles = append([]string(nil), s.userInfo.Roles...)
	return info
}

// UserRoles returns the roles of the current user
func (s *Store) UserRoles() []string {
	return s.CurrentUser().Roles
}

func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userInfo = identity.UserInfo{}
	s.remove(ctx, TokenKey)
	s.remove(ctx, UserInfoKey)
}

// persist and remove must be called with mu held
func (s *Store) persist(ctx context.Context, key, value string) {
	if err := s.storage.SetItem(ctx, key, value); err != nil {
		logger.Ctx(ctx, s.logger).Error("failed to save session", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	if err := s.storage.RemoveItem(ctx, key); err != nil {
		logger.Ctx(ctx, s.logger).Error("failed to remove session key", zap.String("key", key), zap.Error(err))
	}
}

func messageOf(env *shared.Envelope) string {
	if env == nil {
		return "empty response"
	}
	return env.MessageOr("")
}
