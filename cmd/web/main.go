package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/app"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/config"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/logger"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/web/client"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/web/handler"
)

func main() {
	cfg, err := config.LoadWeb()
	if err != nil {
		logger.Init("")
		logger.Fatal("failed to load configuration", map[string]any{
			"error": err.Error(),
		})
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	webHandler := handler.NewHandler(
		client.New(cfg.AuthServiceURL),
		cfg.CookieSecure,
		cfg.SessionTTLSeconds,
	)

	router := gin.New()
	router.Use(gin.Recovery())

	webHandler.RegisterRoutes(router)

	application := app.New(cfg.AppPort, router, nil)

	go func() {
		if err := application.Run(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	logger.Info("web service started", map[string]any{
		"port": cfg.AppPort,
	})

	<-ctx.Done()

	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("web service stopped cleanly", nil)
}
