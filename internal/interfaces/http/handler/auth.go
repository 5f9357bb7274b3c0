// Package handler holds the gin handlers of the mock backend server.
package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/erp/client/internal/domain/identity"
	"github.com/erp/client/internal/domain/shared"
	"github.com/erp/client/internal/infrastructure/auth"
	"github.com/erp/client/internal/infrastructure/logger"
	"github.com/erp/client/internal/infrastructure/mock"
	"github.com/erp/client/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DemoAccount is the only account the mock server accepts
type DemoAccount struct {
	Username string
	Password string
}

// AuthHandler serves /auth/login, /auth/logout and /auth/info
type AuthHandler struct {
	tokens    *auth.TokenService
	blacklist auth.Blacklist
	users     *mock.UserService
	account   DemoAccount
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(
	tokens *auth.TokenService,
	blacklist auth.Blacklist,
	users *mock.UserService,
	account DemoAccount,
	logger *zap.Logger,
) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		tokens:    tokens,
		blacklist: blacklist,
		users:     users,
		account:   account,
		validate:  validator.New(),
		logger:    logger,
	}
}

// LoginResponse is the data of a successful login envelope
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login checks the demo credentials and issues a token. Rejections are
// envelope failures with HTTP 200.
func (h *AuthHandler) Login(c *gin.Context) {
	log := logger.FromGin(c, h.logger)

	var creds identity.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusOK, shared.ErrInvalidInput.Envelope())
		return
	}
	if err := h.validate.Struct(creds); err != nil {
		log.Debug("login input rejected", zap.Error(err))
		c.JSON(http.StatusOK, shared.NewErrorEnvelope(shared.CodeBadRequest, "用户名和密码不能为空"))
		return
	}

	if !h.matches(creds) {
		log.Warn("invalid credentials", zap.String("username", creds.Username))
		c.JSON(http.StatusOK, shared.NewErrorEnvelope(shared.CodeBadRequest, "用户名或密码错误"))
		return
	}

	token, expiresAt, err := h.tokens.Issue(h.users.Current())
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, shared.NewErrorEnvelope(http.StatusInternalServerError, "登录失败"))
		return
	}

	log.Info("user logged in", zap.String("username", creds.Username))
	c.JSON(http.StatusOK, shared.NewSuccessEnvelope("登录成功", LoginResponse{Token: token, ExpiresAt: expiresAt}))
}

// Logout revokes the presented token, if any. It always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	log := logger.FromGin(c, h.logger)

	if token, ok := middleware.BearerToken(c); ok && h.blacklist != nil {
		if claims, err := h.tokens.Validate(token); err == nil {
			if err := h.blacklist.Revoke(c.Request.Context(), claims.ID, claims.RemainingTTL(time.Now())); err != nil {
				log.Error("failed to revoke token", zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusOK, shared.NewSuccessEnvelope("退出成功", nil))
}

// Info returns the profile of the token's user
func (h *AuthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.users.GetCurrentUser())
}

func (h *AuthHandler) matches(creds identity.Credentials) bool {
	user := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(h.account.Username))
	pass := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(h.account.Password))
	return user&pass == 1
}
