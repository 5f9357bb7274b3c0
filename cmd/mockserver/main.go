// mockserver serves the in-memory mock backend over HTTP, including the
// /auth endpoints the client always sends to a real server
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/client/internal/bootstrap"
	"github.com/erp/client/internal/infrastructure/config"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ms, err := bootstrap.NewMockServer(cfg, log)
	if err != nil {
		log.Fatal("Failed to build mock server", zap.Error(err))
	}
	defer func() {
		if err := ms.Close(); err != nil {
			log.Error("Error closing mock server", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.MockServer.Port,
		Handler:           ms.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Mock server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("demo_user", cfg.MockServer.DemoUsername),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
