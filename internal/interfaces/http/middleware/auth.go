// Package middleware holds the gin middleware of the mock backend server.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/client/internal/domain/shared"
	"github.com/erp/client/internal/infrastructure/auth"
	"github.com/erp/client/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by BearerAuth
const (
	ClaimsKey     = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig configures BearerAuth
type AuthConfig struct {
	Tokens *auth.TokenService
	// Blacklist is optional
	Blacklist auth.Blacklist
	// SkipPaths are served without a token
	SkipPaths []string
	Logger    *zap.Logger
}

// BearerAuth rejects requests without a valid bearer token with HTTP 401
func BearerAuth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		log := logger.FromGin(c, cfg.Logger)

		token, ok := BearerToken(c)
		if !ok {
			unauthorized(c, log, auth.ErrInvalidToken, "未登录或登录已失效")
			return
		}

		claims, err := cfg.Tokens.Validate(token)
		if err != nil {
			msg := "登录凭证无效"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "登录已过期，请重新登录"
			}
			unauthorized(c, log, err, msg)
			return
		}

		if cfg.Blacklist != nil && claims.ID != "" {
			revoked, err := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// fail open
				log.Error("failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked {
				unauthorized(c, log, auth.ErrTokenRevoked, "登录已退出，请重新登录")
				return
			}
		}

		c.Set(ClaimsKey, claims)
		log.Debug("token accepted", zap.String("user_id", claims.UserID))
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// GetClaims returns the claims stored by BearerAuth
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func unauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusUnauthorized, shared.NewErrorEnvelope(shared.CodeUnauthorized, message))
}
