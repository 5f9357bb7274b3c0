// Package router assembles the gin engine of the mock backend server.
package router

import (
	"net/http"
	"strings"

	"github.com/erp/client/internal/domain/shared"
	"github.com/erp/client/internal/infrastructure/logger"
	"github.com/erp/client/internal/infrastructure/telemetry"
	"github.com/erp/client/internal/interfaces/http/handler"
	"github.com/erp/client/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIPrefix is where the ERP API is mounted
const APIPrefix = "/api"

// Deps are the collaborators of the engine
type Deps struct {
	Auth    *handler.AuthHandler
	Mock    *handler.MockHandler
	Bearer  gin.HandlerFunc
	Metrics *telemetry.ServerMetrics
	Logger  *zap.Logger
}

// New builds the engine. Login and logout are public, every other API path
// needs a bearer token and is answered by the mock bridge.
func New(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(logger.Recovery(d.Logger), logger.GinMiddleware(d.Logger))
	if d.Metrics != nil {
		engine.Use(middleware.Metrics(d.Metrics))
		engine.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group(APIPrefix)
	api.POST("/auth/login", d.Auth.Login)
	api.POST("/auth/logout", d.Auth.Logout)
	api.GET("/auth/info", d.Bearer, d.Auth.Info)

	engine.NoRoute(apiOnly, d.Bearer, d.Mock.Serve)
	return engine
}

func apiOnly(c *gin.Context) {
	path := c.Request.URL.Path
	if path != APIPrefix && !strings.HasPrefix(path, APIPrefix+"/") {
		c.AbortWithStatusJSON(http.StatusNotFound, shared.NewErrorEnvelope(shared.CodeNotFound, "接口不存在"))
	}
}
