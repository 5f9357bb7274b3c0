package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/erp/client/internal/domain/shared"
	"github.com/erp/client/internal/infrastructure/logger"
	"github.com/erp/client/internal/infrastructure/mock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MockHandler serves every other API path from the mock router
type MockHandler struct {
	router *mock.Router
	prefix string
	logger *zap.Logger
}

// NewMockHandler creates a bridge; prefix is stripped from request paths
func NewMockHandler(router *mock.Router, prefix string, logger *zap.Logger) *MockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockHandler{router: router, prefix: strings.TrimSuffix(prefix, "/"), logger: logger}
}

// Serve answers with the envelope of the matching mock route. Unknown
// routes get HTTP 404 with the mock's not-found envelope.
func (h *MockHandler) Serve(c *gin.Context) {
	log := logger.FromGin(c, h.logger)

	path := strings.TrimPrefix(c.Request.URL.Path, h.prefix)
	if path == "" {
		path = "/"
	}

	params := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	var payload any
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			log.Warn("failed to read body", zap.Error(err))
			c.JSON(http.StatusBadRequest, shared.ErrInvalidInput.Envelope())
			return
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				c.JSON(http.StatusBadRequest, shared.ErrInvalidInput.Envelope())
				return
			}
		}
	}

	env := h.router.Dispatch(c.Request.Context(), mock.Call{
		Method:  c.Request.Method,
		URL:     path,
		Params:  params,
		Payload: payload,
	})

	status := http.StatusOK
	if _, ok := h.router.Resolve(c.Request.Method, path); !ok {
		status = http.StatusNotFound
	}
	c.JSON(status, env)
}
