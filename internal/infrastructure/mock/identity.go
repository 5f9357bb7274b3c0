package mock

import (
	"sync"

	"github.com/erp/client/internal/domain/identity"
	"github.com/erp/client/internal/domain/shared"
)

// UserService serves the signed-in user's profile
type UserService struct {
	mu      sync.RWMutex
	current identity.UserInfo
}

// NewUserService creates a service answering with user
func NewUserService(user identity.UserInfo) *UserService {
	return &UserService{current: user}
}

// Current returns a copy of the signed-in user's profile
func (s *UserService) Current() identity.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.current
	u.Roles = append([]string(nil), s.current.Roles...)
	return u
}

// GetCurrentUser returns the profile of the signed-in user
func (s *UserService) GetCurrentUser() *shared.Envelope {
	return shared.NewSuccessEnvelope("获取用户信息成功", s.Current())
}

// SetCurrentUser replaces the profile returned by GetCurrentUser
func (s *UserService) SetCurrentUser(user identity.UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = user
}
