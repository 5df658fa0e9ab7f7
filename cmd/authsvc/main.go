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
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/auth/google"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/auth/handler"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/config"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/logger"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/redis"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/session"
)

func main() {
	cfg, err := config.LoadAuth()
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

	redisClient, err := redis.New(cfg.RedisHost, cfg.RedisPort, cfg.RedisDB, cfg.RedisSSL)
	if err != nil {
		logger.Fatal("redis connection failed", map[string]any{
			"error": err.Error(),
		})
	}
	logger.Info("redis ready", nil)

	provider, err := google.New(google.Config{
		AuthURL:      cfg.GoogleAuthURL,
		TokenURL:     cfg.GoogleTokenURL,
		UserInfoURL:  cfg.GoogleUserInfoURL,
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
	})
	if err != nil {
		logger.Fatal("google provider init failed", map[string]any{
			"error": err.Error(),
		})
	}

	authHandler := handler.NewHandler(
		provider,
		session.NewRedisStore(redisClient.Client),
		cfg.WebFrontendURL,
		time.Duration(cfg.SessionTTLSeconds)*time.Second,
	)

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	application := app.New(cfg.AppPort, router, redisClient.Close)

	go func() {
		if err := application.Run(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	logger.Info("auth service started", map[string]any{
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

	logger.Info("auth service stopped cleanly", nil)
}
